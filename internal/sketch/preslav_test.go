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
	"testing"

	"github.com/chewxy/math32"

	"genart/internal/raster"
	"genart/internal/render"
	"genart/internal/vector"
)

func uniformImage(w, h int, c vector.Color) *raster.Canvas {
	img := raster.New(w, h)
	img.Fill(c)
	return img
}

func TestPreslavScenarioGray(t *testing.T) {
	img := uniformImage(100, 100, vector.RGB(0.5, 0.5, 0.5))
	s := DefaultPreslavSettings(100, 100, 50)
	s.Seed = 1
	p, err := NewPreslav(img, s)
	if err != nil {
		t.Fatalf("NewPreslav: %v", err)
	}
	out, err := p.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	canvas := out.Vector()
	if canvas.Len() != 50 {
		t.Fatalf("expected 50 polygons, got %d", canvas.Len())
	}
	sizes := p.StrokeSizes()
	if len(sizes) != 50 {
		t.Fatalf("expected 50 stroke sizes, got %d", len(sizes))
	}
	for i, sh := range canvas.All() {
		if sh.Kind != vector.RegularPolygon {
			t.Fatalf("shape %d is %v", i, sh.Kind)
		}
		if sh.Sides != 3 && sh.Sides != 4 {
			t.Fatalf("shape %d has %d edges", i, sh.Sides)
		}
		if sh.Radius != sizes[i] {
			t.Fatalf("shape %d radius %g, recorded %g", i, sh.Radius, sizes[i])
		}
		if i > 0 && sizes[i] > sizes[i-1] {
			t.Fatalf("stroke size grew at %d: %g > %g", i, sizes[i], sizes[i-1])
		}
		if sh.Fill.Color.R != 0.5 || !sh.Fill.Enabled {
			t.Fatalf("shape %d fill = %+v", i, sh.Fill)
		}
	}
	if last, first := sizes[49], sizes[0]; math32.Abs(last*70/first-1) > 0.1 {
		t.Fatalf("default reduction should shrink towards 1/70, got %g -> %g", first, last)
	}
}

func TestPreslavDeterministicForSeed(t *testing.T) {
	img := raster.New(32, 24)
	for y := range 24 {
		for x := range 32 {
			img.SetPixel(x, y, vector.RGB(float32(x)/32, float32(y)/24, 0.3))
		}
	}
	run := func() string {
		s := DefaultPreslavSettings(32, 24, 200)
		s.Seed = 99
		p, err := NewPreslav(img, s)
		if err != nil {
			t.Fatalf("NewPreslav: %v", err)
		}
		out, err := p.Run(nil)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		svg, err := render.Draw(out.Vector(), render.NewSVG(render.SVGOptions{Width: 320, Height: 240}))
		if err != nil {
			t.Fatalf("svg: %v", err)
		}
		return svg
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("two runs with the same seed differ")
	}
}

func TestPreslavOutlineContrast(t *testing.T) {
	cases := []struct {
		name string
		fill vector.Color
		want vector.Color
	}{
		{"dark fill gets white outline", vector.RGB(0.2, 0.2, 0.2), vector.White},
		{"light fill gets black outline", vector.RGB(0.8, 0.8, 0.8), vector.Black},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultPreslavSettings(10, 10, 1)
			s.StrokeInversionThreshold = 2
			s.Alpha = 0.3
			s.Seed = 5
			p, err := NewPreslav(uniformImage(10, 10, tc.fill), s)
			if err != nil {
				t.Fatalf("NewPreslav: %v", err)
			}
			out, _ := p.Run(nil)
			sh := out.Vector().At(0)
			if !sh.Stroke.Enabled {
				t.Fatalf("expected an outline")
			}
			if sh.Stroke.Color.WithAlpha(1) != tc.want {
				t.Fatalf("outline color = %v", sh.Stroke.Color)
			}
			if math32.Abs(sh.Stroke.Color.A-0.6) > 1e-6 {
				t.Fatalf("outline alpha = %g, want 0.6", sh.Stroke.Color.A)
			}
			if sh.Stroke.Width != DefaultOutlineWidth {
				t.Fatalf("outline width = %g", sh.Stroke.Width)
			}
		})
	}
}

func TestPreslavNoOutlineAboveThreshold(t *testing.T) {
	s := DefaultPreslavSettings(10, 10, 5)
	s.Seed = 5
	p, err := NewPreslav(uniformImage(10, 10, vector.White), s)
	if err != nil {
		t.Fatalf("NewPreslav: %v", err)
	}
	out, _ := p.Run(nil)
	if sh := out.Vector().At(0); sh.Stroke.Enabled {
		t.Fatalf("first shape should have no outline, got %+v", sh.Stroke)
	}
}

func TestPreslavAlphaGrowth(t *testing.T) {
	cases := []struct {
		growth AlphaGrowth
		want   []float32
	}{
		{AlphaLinear, []float32{0.5, 0.6, 0.7}},
		{AlphaSelfLimiting, []float32{0.5, 0.7, 0.7 + 0.1/0.7}},
	}
	for _, tc := range cases {
		t.Run(string(tc.growth), func(t *testing.T) {
			s := DefaultPreslavSettings(4, 4, 3)
			s.Alpha = 0.5
			s.AlphaIncrease = 0.1
			s.AlphaGrowth = tc.growth
			s.Seed = 2
			p, err := NewPreslav(uniformImage(4, 4, vector.White), s)
			if err != nil {
				t.Fatalf("NewPreslav: %v", err)
			}
			out, _ := p.Run(nil)
			for i, want := range tc.want {
				if got := out.Vector().At(i).Fill.Color.A; math32.Abs(got-want) > 1e-5 {
					t.Fatalf("alpha[%d] = %g, want %g", i, got, want)
				}
			}
		})
	}
}

func TestPreslavAlphaIsClamped(t *testing.T) {
	s := DefaultPreslavSettings(4, 4, 4)
	s.Alpha = 0.9
	s.AlphaIncrease = 0.5
	s.Seed = 2
	p, err := NewPreslav(uniformImage(4, 4, vector.White), s)
	if err != nil {
		t.Fatalf("NewPreslav: %v", err)
	}
	out, _ := p.Run(nil)
	if got := out.Vector().At(3).Fill.Color.A; got != 1 {
		t.Fatalf("alpha should clamp to 1, got %g", got)
	}
}

func TestPreslavConfigErrors(t *testing.T) {
	img := uniformImage(4, 4, vector.White)
	cases := []struct {
		name  string
		field string
		edit  func(*PreslavSettings)
	}{
		{"too few edges", "min_edge_count", func(s *PreslavSettings) { s.MinEdgeCount = 2 }},
		{"inverted edge range", "max_edge_count", func(s *PreslavSettings) { s.MinEdgeCount, s.MaxEdgeCount = 5, 4 }},
		{"negative shapes", "shapes", func(s *PreslavSettings) { s.Shapes = -1 }},
		{"full reduction", "stroke_reduction", func(s *PreslavSettings) { s.StrokeReduction = 1 }},
		{"unknown growth", "alpha_growth", func(s *PreslavSettings) { s.AlphaGrowth = "cubic" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultPreslavSettings(4, 4, 10)
			tc.edit(&s)
			_, err := NewPreslav(img, s)
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("expected error on %q, got %v", tc.field, err)
			}
		})
	}
	if _, err := NewPreslav(raster.New(0, 0), DefaultPreslavSettings(0, 0, 1)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("empty image should be rejected, got %v", err)
	}
}
