/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	applog "genart/internal/log"
	"genart/internal/render"
	"genart/internal/sketch"
	"genart/internal/vector"
)

// Options controls how sketch output is written. Width and Height are the
// device size for vector output and for rasterizing vector sketches; raster
// sketches keep their own size.
type Options struct {
	Width, Height int
	Background    vector.Color
	Fit           render.Fit
	Aliased       bool
	// Precision is the number of SVG decimals; IntegersOnly rounds coordinates.
	Precision    int
	IntegersOnly bool
	Quality      int
	Title        string
}

// Bytes encodes out in format f.
func Bytes(out *sketch.Output, f Format, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, out, f, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes out in format f to w.
func Write(w io.Writer, out *sketch.Output, f Format, opt Options) error {
	switch f {
	case SVG:
		return WriteSVG(w, out.Vector(), render.SVGOptions{
			Width: opt.Width, Height: opt.Height, Background: opt.Background, Fit: opt.Fit,
			IntegersOnly: opt.IntegersOnly, Precision: opt.Precision,
		})
	case PDF:
		return WritePDF(w, out.Vector(), render.PDFOptions{
			Width: opt.Width, Height: opt.Height, Background: opt.Background, Fit: opt.Fit, Title: opt.Title,
		})
	}
	ras, err := out.Raster(render.RasterOptions{
		Width: opt.Width, Height: opt.Height, Background: opt.Background, Fit: opt.Fit, Aliased: opt.Aliased,
	})
	if err != nil {
		return err
	}
	return Encode(w, ras.NRGBA(), f, opt.Quality)
}

// Save writes out to path, choosing the format by extension and creating
// parent directories as needed.
func Save(path string, out *sketch.Output, opt Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	if err := Write(file, out, f, opt); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	applog.WithComponent("export").Debug("saved", slog.String("path", path), slog.String("format", string(f)))
	return nil
}
