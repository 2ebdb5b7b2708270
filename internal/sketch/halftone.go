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
	"log/slog"

	"github.com/chewxy/math32"

	applog "genart/internal/log"
	"genart/internal/raster"
	"genart/internal/vector"
)

// HalftoneSettings configures the dot-screen sketcher.
type HalftoneSettings struct {
	// DotDensity is the grid pitch in source pixels.
	DotDensity float32      `yaml:"dot_density" json:"dot_density"`
	DotScale   float32      `yaml:"dot_scale" json:"dot_scale"`
	DotSides   int          `yaml:"dot_sides" json:"dot_sides"`
	DotColor   vector.Color `yaml:"dot_color" json:"dot_color"`
	// Angle rotates the screen, in radians.
	Angle float32 `yaml:"angle" json:"angle"`
}

// DefaultHalftoneSettings returns a classic 45 degree black screen.
func DefaultHalftoneSettings() HalftoneSettings {
	return HalftoneSettings{
		DotDensity: 8,
		DotScale:   1,
		DotSides:   16,
		DotColor:   vector.Black,
		Angle:      math32.Pi / 4,
	}
}

// Validate reports the first invalid setting.
func (s HalftoneSettings) Validate() error {
	const name = "halftone"
	if !(s.DotDensity > 0) {
		return configErr(name, "dot_density", "must be positive, got %g", s.DotDensity)
	}
	if s.DotSides < 3 {
		return configErr(name, "dot_sides", "must be at least 3, got %d", s.DotSides)
	}
	if s.DotScale < 0 {
		return configErr(name, "dot_scale", "must not be negative, got %g", s.DotScale)
	}
	return nil
}

// Halftone reinterprets an image as a rotated grid of dots whose size grows
// with darkness.
type Halftone struct {
	settings HalftoneSettings
	img      *raster.Canvas
}

// NewHalftone validates settings against img.
func NewHalftone(img *raster.Canvas, settings HalftoneSettings) (*Halftone, error) {
	if err := requireImage("halftone", img); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Halftone{settings: settings, img: img}, nil
}

// Run lays out the grid. It spans three times the image in each direction so
// the rotated screen covers every corner; sample points falling outside the
// image read the nearest edge pixel.
func (h *Halftone) Run(progress Progress) (*Output, error) {
	s := h.settings
	w, ht := h.img.Width(), h.img.Height()
	frame := frameFor(w, ht)
	major := float32(min(w, ht))

	dimX := int(math32.Ceil(float32(w) / s.DotDensity))
	dimY := int(math32.Ceil(float32(ht) / s.DotDensity))
	total := 9 * dimX * dimY

	l := applog.WithComponent("sketch")
	l.Debug("halftone start", slog.Int("cells", total), slog.Float64("density", float64(s.DotDensity)))

	canvas := vector.NewCanvas(total)
	fill := vector.Solid(s.DotColor)
	sin, cos := math32.Sincos(s.Angle)
	done := 0
	for ix := -dimX; ix < 2*dimX; ix++ {
		for iy := -dimY; iy < 2*dimY; iy++ {
			progress.report(done, total)
			done++

			cell := vector.V(float32(ix), float32(iy)).Scale(s.DotDensity)
			cell = cell.Add(vector.V(s.DotDensity/2, s.DotDensity/2)).Sub(frame.half)
			pos := vector.V(cell.X*cos-cell.Y*sin, cell.X*sin+cell.Y*cos).Add(frame.half)

			px := min(max(int(pos.X), 0), w-1)
			py := min(max(int(pos.Y), 0), ht-1)
			value := h.img.Pixel(px, py).Value()
			radius := s.DotDensity / major * (1 - value) / math32.Sqrt2 * s.DotScale

			canvas.DrawRegularPolygon(frame.toCamera(pos), s.DotSides, radius, 0, fill, vector.NoStroke)
		}
	}

	l.Debug("halftone done", slog.Int("shapes", canvas.Len()))
	return VectorOutput(canvas), nil
}
