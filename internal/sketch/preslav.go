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
	"log/slog"

	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"

	applog "genart/internal/log"
	"genart/internal/raster"
	"genart/internal/vector"
)

// AlphaGrowth selects how the shape alpha grows after each shape.
type AlphaGrowth string

const (
	// AlphaLinear adds AlphaIncrease after every shape.
	AlphaLinear AlphaGrowth = "linear"
	// AlphaSelfLimiting adds AlphaIncrease divided by the current alpha, so
	// growth slows as shapes become opaque.
	AlphaSelfLimiting AlphaGrowth = "self_limiting"
)

// ParseAlphaGrowth accepts "linear" and "self_limiting"; empty means linear.
func ParseAlphaGrowth(s string) (AlphaGrowth, error) {
	switch AlphaGrowth(s) {
	case "", AlphaLinear:
		return AlphaLinear, nil
	case AlphaSelfLimiting:
		return AlphaSelfLimiting, nil
	}
	return "", fmt.Errorf("unknown alpha growth %q", s)
}

// DefaultOutlineWidth is the outline stroke width in camera units.
const DefaultOutlineWidth float32 = 0.001

// PreslavSettings configures the polygon stippling sketcher. Sizes and jitter
// are in camera units.
type PreslavSettings struct {
	StrokeJitter float32 `yaml:"stroke_jitter" json:"stroke_jitter"`
	// StrokeInversionThreshold is a fraction of the initial stroke size below
	// which shapes get a contrasting outline.
	StrokeInversionThreshold float32     `yaml:"stroke_inversion_threshold" json:"stroke_inversion_threshold"`
	Alpha                    float32     `yaml:"alpha" json:"alpha"`
	AlphaIncrease            float32     `yaml:"alpha_increase" json:"alpha_increase"`
	AlphaGrowth              AlphaGrowth `yaml:"alpha_growth" json:"alpha_growth"`
	MinEdgeCount             int         `yaml:"min_edge_count" json:"min_edge_count"`
	MaxEdgeCount             int         `yaml:"max_edge_count" json:"max_edge_count"`
	StrokeSize               float32     `yaml:"stroke_size" json:"stroke_size"`
	// StrokeReduction is the fraction of the stroke size removed after each shape.
	StrokeReduction   float32 `yaml:"stroke_reduction" json:"stroke_reduction"`
	RandomizeRotation float32 `yaml:"randomize_rotation" json:"randomize_rotation"`
	Shapes            int     `yaml:"shapes" json:"shapes"`
	OutlineWidth      float32 `yaml:"outline_width" json:"outline_width"`
	Seed              uint64  `yaml:"seed" json:"seed"`
}

// DefaultPreslavSettings derives settings for a width x height image so that
// the stroke shrinks to 1/70 of its initial size and the alpha reaches 1 over
// the given number of shapes.
func DefaultPreslavSettings(width, height, shapes int) PreslavSettings {
	extent := float32(2)
	if m := min(width, height); m > 0 {
		extent = 2 * float32(width) / float32(m)
	}
	s := PreslavSettings{
		StrokeJitter:             0.1 * extent,
		StrokeInversionThreshold: 0.05,
		Alpha:                    0.274,
		AlphaGrowth:              AlphaLinear,
		MinEdgeCount:             3,
		MaxEdgeCount:             4,
		StrokeSize:               extent / 4,
		RandomizeRotation:        2 * math32.Pi,
		Shapes:                   shapes,
		OutlineWidth:             DefaultOutlineWidth,
	}
	if shapes > 0 {
		s.AlphaIncrease = (1 - s.Alpha) / float32(shapes)
		s.StrokeReduction = 1 - math32.Pow(70, -1/float32(shapes))
	}
	return s
}

// Validate reports the first invalid setting.
func (s PreslavSettings) Validate() error {
	const name = "preslav"
	if s.MinEdgeCount < 3 {
		return configErr(name, "min_edge_count", "must be at least 3, got %d", s.MinEdgeCount)
	}
	if s.MaxEdgeCount < s.MinEdgeCount {
		return configErr(name, "max_edge_count", "must be at least min_edge_count %d, got %d", s.MinEdgeCount, s.MaxEdgeCount)
	}
	if s.Shapes < 0 {
		return configErr(name, "shapes", "must not be negative, got %d", s.Shapes)
	}
	if s.StrokeReduction < 0 || s.StrokeReduction >= 1 {
		return configErr(name, "stroke_reduction", "must be within [0, 1), got %g", s.StrokeReduction)
	}
	if s.StrokeSize < 0 {
		return configErr(name, "stroke_size", "must not be negative, got %g", s.StrokeSize)
	}
	if s.StrokeJitter < 0 {
		return configErr(name, "stroke_jitter", "must not be negative, got %g", s.StrokeJitter)
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return configErr(name, "alpha", "must be within [0, 1], got %g", s.Alpha)
	}
	growth, err := ParseAlphaGrowth(string(s.AlphaGrowth))
	if err != nil {
		return configErr(name, "alpha_growth", "%v", err)
	}
	if growth == AlphaSelfLimiting && s.Alpha <= 0 {
		return configErr(name, "alpha", "must be positive with self-limiting growth")
	}
	if s.OutlineWidth < 0 {
		return configErr(name, "outline_width", "must not be negative, got %g", s.OutlineWidth)
	}
	return nil
}

// Preslav approximates an image by splatting translucent regular polygons,
// large and faint first, small and opaque last.
type Preslav struct {
	settings PreslavSettings
	img      *raster.Canvas
	frame    imageFrame
	rng      *rand.Rand
	seed     uint64

	initialSize float32
	size        float32
	alpha       float32
	sizes       []float32
	canvas      *vector.Canvas
}

// NewPreslav validates settings against img and prepares a run.
func NewPreslav(img *raster.Canvas, settings PreslavSettings) (*Preslav, error) {
	if err := requireImage("preslav", img); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.AlphaGrowth, _ = ParseAlphaGrowth(string(settings.AlphaGrowth))
	if settings.OutlineWidth == 0 {
		settings.OutlineWidth = DefaultOutlineWidth
	}
	src, seed := newSource(settings.Seed)
	return &Preslav{
		settings:    settings,
		img:         img,
		frame:       frameFor(img.Width(), img.Height()),
		rng:         rand.New(src),
		seed:        seed,
		initialSize: settings.StrokeSize,
		size:        settings.StrokeSize,
		alpha:       settings.Alpha,
		sizes:       make([]float32, 0, settings.Shapes),
		canvas:      vector.NewCanvas(settings.Shapes),
	}, nil
}

// Seed returns the seed used for sampling.
func (p *Preslav) Seed() uint64 { return p.seed }

// StrokeSizes returns the polygon radius used for each shape drawn so far.
func (p *Preslav) StrokeSizes() []float32 { return append([]float32(nil), p.sizes...) }

// Run draws Shapes polygons.
func (p *Preslav) Run(progress Progress) (*Output, error) {
	l := applog.WithComponent("sketch")
	l.Debug("preslav start",
		slog.Int("shapes", p.settings.Shapes),
		slog.Int("width", p.img.Width()),
		slog.Int("height", p.img.Height()),
		slog.Uint64("seed", p.seed))

	for i := range p.settings.Shapes {
		progress.report(i, p.settings.Shapes)
		p.drawShape()
	}

	l.Debug("preslav done", slog.Int("shapes", p.canvas.Len()))
	return VectorOutput(p.canvas), nil
}

func (p *Preslav) drawShape() {
	s := &p.settings
	w, h := p.img.Width(), p.img.Height()

	at := vector.V(uniform(p.rng, 0, float32(w)), uniform(p.rng, 0, float32(h)))
	jitter := vector.V(
		uniform(p.rng, -s.StrokeJitter, s.StrokeJitter),
		uniform(p.rng, -s.StrokeJitter, s.StrokeJitter),
	)
	center := p.frame.toCamera(at).Add(jitter)
	edges := s.MinEdgeCount + p.rng.Intn(s.MaxEdgeCount-s.MinEdgeCount+1)

	px := min(int(at.X), w-1)
	py := min(int(at.Y), h-1)
	col := p.img.Pixel(px, py).WithAlpha(p.alpha)

	outline := vector.NoStroke
	if p.size < s.StrokeInversionThreshold*p.initialSize {
		edge := vector.Black
		if col.Value() < 0.5 {
			edge = vector.White
		}
		outline = vector.Line(edge.WithAlpha(min(2*p.alpha, 1)), s.OutlineWidth, vector.EndRound)
	}

	rotation := p.rng.Float32() * s.RandomizeRotation
	p.canvas.DrawRegularPolygon(center, edges, p.size, rotation, vector.Solid(col), outline)
	p.sizes = append(p.sizes, p.size)

	p.size -= s.StrokeReduction * p.size
	switch s.AlphaGrowth {
	case AlphaSelfLimiting:
		if p.alpha > 0 {
			p.alpha += s.AlphaIncrease / p.alpha
		}
	default:
		p.alpha += s.AlphaIncrease
	}
	p.alpha = min(max(p.alpha, 0), 1)
}
