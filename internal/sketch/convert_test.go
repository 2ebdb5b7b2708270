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
	"testing"

	"genart/internal/raster"
	"genart/internal/render"
	"genart/internal/vector"
)

func checker(w, h int) *raster.Canvas {
	img := raster.New(w, h)
	for y := range h {
		for x := range w {
			img.SetPixel(x, y, vector.FromRGBA8(uint8(x*60), uint8(y*60), 200, 255))
		}
	}
	return img
}

func TestPixelateOneSquarePerPixel(t *testing.T) {
	img := checker(3, 2)
	canvas := Pixelate(img)
	if canvas.Len() != 6 {
		t.Fatalf("expected 6 squares, got %d", canvas.Len())
	}
	first := canvas.At(0)
	if first.Kind != vector.Polygon || len(first.Points) != 4 {
		t.Fatalf("unexpected shape %+v", first)
	}
	// 3x2 image: half size (1.5, 1), scale 2/2.
	if first.Points[0] != vector.V(-1.5, 1) || first.Points[2] != vector.V(-0.5, 0) {
		t.Fatalf("first square = %v", first.Points)
	}
	if first.Fill.Color != img.Pixel(0, 0) || first.Stroke.Enabled {
		t.Fatalf("square paint = %+v %+v", first.Fill, first.Stroke)
	}
	if last := canvas.At(5); last.Fill.Color != img.Pixel(2, 1) {
		t.Fatalf("last square color = %v", last.Fill.Color)
	}
}

func TestPixelateRasterizeRoundTrip(t *testing.T) {
	img := checker(4, 4)
	back, err := Rasterize(Pixelate(img), render.RasterOptions{Width: 4, Height: 4, Aliased: true})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			if got, want := back.NRGBA().NRGBAAt(x, y), img.Pixel(x, y).NRGBA(); got != want {
				t.Fatalf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestOutputConvertsOnDemand(t *testing.T) {
	img := checker(2, 2)
	out := RasterOutput(img)
	if out.IsVector() {
		t.Fatalf("raster output reported as vector")
	}
	if got, err := out.Raster(render.RasterOptions{}); err != nil || got != img {
		t.Fatalf("raster output should be returned as is, err=%v", err)
	}
	if n := out.Vector().Len(); n != 4 {
		t.Fatalf("vector view should hold 4 squares, got %d", n)
	}

	c := vector.NewCanvas(1)
	c.DrawCircle(vector.V(0, 0), 1, vector.Solid(vector.Black), vector.NoStroke)
	vout := VectorOutput(c)
	if !vout.IsVector() || vout.Vector() != c {
		t.Fatalf("vector output should expose its canvas")
	}
	r, err := vout.Raster(render.RasterOptions{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if px := r.Pixel(5, 5); px.A != 1 || px.R != 0 {
		t.Fatalf("center should be opaque black, got %+v", px)
	}
	if _, err := vout.Raster(render.RasterOptions{}); err == nil {
		t.Fatalf("zero-size rasterization should fail")
	}
}

func TestVectorFragmentMutatesEveryShape(t *testing.T) {
	c := vector.NewCanvas(3)
	for i := range 3 {
		c.DrawCircle(vector.V(float32(i), 0), 0.1, vector.Solid(vector.Black), vector.NoStroke)
	}
	var calls int
	f := &VectorFragment{Canvas: c, Kernel: func(s *vector.Shape) { s.Radius *= 2 }}
	out, err := f.Run(func(float32) { calls++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, s := range out.Vector().All() {
		if s.Radius != 0.2 {
			t.Fatalf("shape %d radius = %g", i, s.Radius)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 progress calls, got %d", calls)
	}
}

func TestRasterFragmentSeesLiveBuffer(t *testing.T) {
	img := raster.New(3, 1)
	img.SetPixel(0, 0, vector.RGB(0.25, 0, 0))
	f := &RasterFragment{Canvas: img, Kernel: func(x, y, i int, pix []vector.Color) vector.Color {
		if x == 0 {
			return pix[i]
		}
		return pix[i-1].Add(vector.RGB(0.25, 0, 0)).WithAlpha(1)
	}}
	out, err := f.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r, _ := out.Raster(render.RasterOptions{})
	if got := r.Pixel(2, 0).R; got != 0.75 {
		t.Fatalf("kernel should accumulate along the row, got %g", got)
	}
	if _, err := (&RasterFragment{}).Run(nil); err == nil {
		t.Fatalf("missing kernel should be an error")
	}
}
