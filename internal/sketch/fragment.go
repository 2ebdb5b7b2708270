/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package sketch

import (
	"errors"

	"genart/internal/raster"
	"genart/internal/vector"
)

// VectorFragment runs Kernel over every shape of Canvas in draw order,
// mutating the canvas in place.
type VectorFragment struct {
	Canvas *vector.Canvas
	Kernel func(s *vector.Shape)
}

// Run applies the kernel once per shape.
func (f *VectorFragment) Run(progress Progress) (*Output, error) {
	if f.Canvas == nil || f.Kernel == nil {
		return nil, errors.New("vector fragment: canvas and kernel are required")
	}
	total := f.Canvas.Len()
	i := 0
	f.Canvas.Each(func(s *vector.Shape) {
		progress.report(i, total)
		i++
		f.Kernel(s)
	})
	return VectorOutput(f.Canvas), nil
}

// RasterFragment runs Kernel for every pixel of Canvas, like a post-processing
// fragment shader. The kernel receives the pixel coordinates, its index into
// pix and the live pixel buffer; pixels already visited hold their new value.
type RasterFragment struct {
	Canvas *raster.Canvas
	Kernel func(x, y, i int, pix []vector.Color) vector.Color
}

// Run applies the kernel row by row, reporting progress once per row.
func (f *RasterFragment) Run(progress Progress) (*Output, error) {
	if f.Canvas == nil || f.Kernel == nil {
		return nil, errors.New("raster fragment: canvas and kernel are required")
	}
	w, h := f.Canvas.Size()
	pix := f.Canvas.RawMut()
	for y := range h {
		progress.report(y, h)
		for x := range w {
			i := y*w + x
			pix[i] = f.Kernel(x, y, i, pix)
		}
	}
	return RasterOutput(f.Canvas), nil
}
