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

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"

	applog "genart/internal/log"
	"genart/internal/raster"
	"genart/internal/vector"
)

// WaveSettings configures the wave-line sketcher.
type WaveSettings struct {
	Stroke vector.Stroke `yaml:"-" json:"-"`
	// SkipRows and SkipColumns thin out the scan: only every (n+1)th row or
	// column is used.
	SkipRows            int     `yaml:"skip_rows" json:"skip_rows"`
	SkipColumns         int     `yaml:"skip_columns" json:"skip_columns"`
	FrequencyMultiplier float32 `yaml:"frequency_multiplier" json:"frequency_multiplier"`
	// AmplitudeMultiplier is in source pixels.
	AmplitudeMultiplier float32 `yaml:"amplitude_multiplier" json:"amplitude_multiplier"`
	// InvertBrightness makes dark areas oscillate fastest.
	InvertBrightness bool `yaml:"invert_brightness" json:"invert_brightness"`
	// BrightnessThreshold gates drawing; darker samples end the current line.
	BrightnessThreshold float32 `yaml:"brightness_threshold" json:"brightness_threshold"`
	BoxBlurRadius       int     `yaml:"box_blur_radius" json:"box_blur_radius"`
	// StrokeWithFrequency splits lines into two-point segments whose width
	// follows the phase step.
	StrokeWithFrequency bool `yaml:"stroke_with_frequency" json:"stroke_with_frequency"`
}

// DefaultWaveSettings returns a dense black line pattern.
func DefaultWaveSettings() WaveSettings {
	return WaveSettings{
		Stroke:              vector.Line(vector.Black, 0.002, vector.EndRound),
		SkipRows:            4,
		FrequencyMultiplier: 0.5,
		AmplitudeMultiplier: 2,
	}
}

// Validate reports the first invalid setting.
func (s WaveSettings) Validate() error {
	const name = "waves"
	if s.SkipRows < 0 {
		return configErr(name, "skip_rows", "must not be negative, got %d", s.SkipRows)
	}
	if s.SkipColumns < 0 {
		return configErr(name, "skip_columns", "must not be negative, got %d", s.SkipColumns)
	}
	if s.BoxBlurRadius < 0 {
		return configErr(name, "box_blur_radius", "must not be negative, got %d", s.BoxBlurRadius)
	}
	if s.Stroke.Width < 0 {
		return configErr(name, "stroke.width", "must not be negative, got %g", s.Stroke.Width)
	}
	return nil
}

// Wave turns image rows into sine traces whose frequency follows brightness.
type Wave struct {
	settings WaveSettings
	img      *raster.Canvas
}

// NewWave validates settings against img. When BoxBlurRadius is positive the
// image is blurred once up front.
func NewWave(img *raster.Canvas, settings WaveSettings) (*Wave, error) {
	if err := requireImage("waves", img); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.BoxBlurRadius > 0 {
		img = raster.FromImage(blur.Box(img, float64(settings.BoxBlurRadius)))
	}
	return &Wave{settings: settings, img: img}, nil
}

func (w *Wave) brightness(x, y int) float32 {
	c := w.img.Pixel(x, y)
	b := (c.R + c.G + c.B) / 3 * c.A
	if w.settings.InvertBrightness {
		b = 1 - b
	}
	return b
}

// Run scans the retained rows.
func (w *Wave) Run(progress Progress) (*Output, error) {
	s := w.settings
	width, height := w.img.Width(), w.img.Height()
	frame := frameFor(width, height)
	colStep := s.SkipColumns + 1

	l := applog.WithComponent("sketch")
	l.Debug("waves start", slog.Int("width", width), slog.Int("height", height))

	canvas := vector.NewCanvas(height / (s.SkipRows + 1))
	flush := func(pts []vector.Vec2, stroke vector.Stroke) {
		if len(pts) >= 2 {
			canvas.DrawPolyLine(pts, stroke)
		}
	}

	for row := 0; row < height; row += s.SkipRows + 1 {
		progress.report(row, height)

		var a float32
		var pts []vector.Vec2
		for col := 0; col < width; col += colStep {
			b := w.brightness(col, row)
			if b < s.BrightnessThreshold {
				flush(pts, s.Stroke)
				pts = nil
				continue
			}
			delta := b * s.FrequencyMultiplier
			a = math32.Mod(a+delta*float32(colStep), 2*math32.Pi)
			y := math32.Sin(a) * s.AmplitudeMultiplier
			p := frame.toCamera(vector.V(float32(col), float32(row)+y))
			pts = append(pts, p)

			if s.StrokeWithFrequency && len(pts) >= 2 {
				stroke := s.Stroke
				stroke.Width = max(s.Stroke.Width*delta*10, 0)
				flush(pts, stroke)
				pts = []vector.Vec2{p}
			}
		}
		flush(pts, s.Stroke)
	}

	l.Debug("waves done", slog.Int("shapes", canvas.Len()))
	return VectorOutput(canvas), nil
}
