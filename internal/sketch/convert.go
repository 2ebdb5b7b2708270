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
	"fmt"

	"genart/internal/raster"
	"genart/internal/render"
	"genart/internal/vector"
)

// Pixelate expands every pixel into a filled unit square, mapped into camera
// space the same way the image sketchers map their source. The result holds
// width*height shapes.
func Pixelate(img *raster.Canvas) *vector.Canvas {
	w, h := img.Size()
	canvas := vector.NewCanvas(w * h)
	frame := frameFor(w, h)
	for y := range h {
		for x := range w {
			fx, fy := float32(x), float32(y)
			square := []vector.Vec2{
				frame.toCamera(vector.V(fx, fy)),
				frame.toCamera(vector.V(fx+1, fy)),
				frame.toCamera(vector.V(fx+1, fy+1)),
				frame.toCamera(vector.V(fx, fy+1)),
			}
			canvas.DrawPolygon(square, vector.Solid(img.Pixel(x, y)), vector.NoStroke)
		}
	}
	return canvas
}

// Rasterize draws canvas with the software raster renderer.
func Rasterize(canvas *vector.Canvas, opt render.RasterOptions) (*raster.Canvas, error) {
	r, err := render.NewRaster(opt)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	img, err := render.Draw(canvas, r)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	return raster.FromImage(img), nil
}
