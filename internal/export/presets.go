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
	"fmt"
	"path/filepath"
	"strings"

	"genart/internal/sketch"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// ParsePreset accepts "web" and "print".
func ParsePreset(s string) (PresetName, error) {
	switch p := PresetName(strings.ToLower(strings.TrimSpace(s))); p {
	case PresetWeb, PresetPrint:
		return p, nil
	}
	return "", fmt.Errorf("unknown export preset %q", s)
}

// BatchOptions controls batch export of one sketch output across formats.
//
// Path semantics:
//   - If OutDir is empty it defaults to the preset name.
//   - Files are written to <OutDir>/<format>/<Name>.<ext>, keeping assets
//     grouped by preset and format.
//
// Width and Height override the preset's long edge; Options carries the rest
// of the render settings.
type BatchOptions struct {
	Preset  PresetName
	Formats []Format // empty means preset defaults
	Name    string   // base file name without extension; defaults to "sketch"
	OutDir  string
	Options Options
}

// BatchExport writes out once per format and returns the written paths.
func BatchExport(out *sketch.Output, opt BatchOptions) ([]string, error) {
	if out == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "sketch"
	}
	o := opt.Options
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = presetSize(opt.Preset)
	}
	if opt.Preset == PresetPrint {
		o.Quality = 100
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(baseOut, string(f), name+f.Ext())
		if err := Save(path, out, o); err != nil {
			return paths, fmt.Errorf("%s export: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func presetDefaultFormats(p PresetName) []Format {
	switch p {
	case PresetWeb:
		return []Format{PNG, SVG}
	case PresetPrint:
		return []Format{PDF, TIFF}
	default:
		return []Format{PNG}
	}
}

func presetSize(p PresetName) (int, int) {
	switch p {
	case PresetPrint:
		return 3600, 3600
	default:
		return 1200, 1200
	}
}
