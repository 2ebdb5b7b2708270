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
	"golang.org/x/exp/rand"

	applog "genart/internal/log"
	"genart/internal/vector"
)

// CelestialSettings configures the N-body simulation.
type CelestialSettings struct {
	// ObjectCount is the number of simulated bodies.
	ObjectCount int `yaml:"object_count" json:"object_count"`
	// RenderCount is how many of the bodies are drawn; 0 draws all of them.
	RenderCount int `yaml:"render_count" json:"render_count"`
	// Position is sampled once per axis.
	Position Dist `yaml:"position" json:"position"`
	Mass     Dist `yaml:"mass" json:"mass"`
	// Velocity is sampled once per axis.
	Velocity   Dist         `yaml:"velocity" json:"velocity"`
	G          float32      `yaml:"g" json:"g"`
	Foreground vector.Color `yaml:"foreground" json:"foreground"`
	Steps      int          `yaml:"steps" json:"steps"`
	StepLength float32      `yaml:"step_length" json:"step_length"`
	// RenderDots draws one circle per path sample instead of one polyline.
	RenderDots bool `yaml:"render_dots" json:"render_dots"`
	// CullDots drops dots lying entirely outside View grown by ViewMargin.
	CullDots   bool        `yaml:"cull_dots" json:"cull_dots"`
	View       vector.Rect `yaml:"-" json:"-"`
	ViewMargin float32     `yaml:"view_margin" json:"view_margin"`
	// MinDistance clamps pair distances from below; 0 only skips coincident pairs.
	MinDistance float32 `yaml:"min_distance" json:"min_distance"`
	// MaxRadiusFromCenter rejects initial positions farther than this from the
	// origin; 0 disables the check.
	MaxRadiusFromCenter float32 `yaml:"max_radius_from_center" json:"max_radius_from_center"`
	Seed                uint64  `yaml:"seed" json:"seed"`
}

// DefaultCelestialSettings returns a small three-body setup.
func DefaultCelestialSettings() CelestialSettings {
	return CelestialSettings{
		ObjectCount: 3,
		Position:    Uniform(-0.5, 0.5),
		Mass:        Uniform(0.001, 0.01),
		Velocity:    Uniform(-0.1, 0.1),
		G:           1,
		Foreground:  vector.Black,
		Steps:       1000,
		StepLength:  0.01,
		View:        defaultView,
	}
}

var defaultView = vector.Rect{Min: vector.V(-1, -1), Max: vector.V(1, 1)}

// Validate reports the first invalid setting.
func (s CelestialSettings) Validate() error {
	const name = "celestial"
	if s.ObjectCount < 1 {
		return configErr(name, "object_count", "must be at least 1, got %d", s.ObjectCount)
	}
	if s.RenderCount < 0 || s.RenderCount > s.ObjectCount {
		return configErr(name, "render_count", "must be within 0..%d, got %d", s.ObjectCount, s.RenderCount)
	}
	if s.Steps < 0 {
		return configErr(name, "steps", "must not be negative, got %d", s.Steps)
	}
	if s.Steps > 0 && !(s.StepLength > 0) {
		return configErr(name, "step_length", "must be positive, got %g", s.StepLength)
	}
	dists := []struct {
		field string
		dist  Dist
	}{{"position", s.Position}, {"mass", s.Mass}, {"velocity", s.Velocity}}
	for _, d := range dists {
		if err := d.dist.validate(); err != nil {
			return configErr(name, d.field, "%v", err)
		}
	}
	if s.MinDistance < 0 {
		return configErr(name, "min_distance", "must not be negative, got %g", s.MinDistance)
	}
	if s.MaxRadiusFromCenter < 0 {
		return configErr(name, "max_radius_from_center", "must not be negative, got %g", s.MaxRadiusFromCenter)
	}
	if s.ViewMargin < 0 {
		return configErr(name, "view_margin", "must not be negative, got %g", s.ViewMargin)
	}
	return nil
}

// Body is one simulated point mass.
type Body struct {
	Position vector.Vec2
	Velocity vector.Vec2
	Mass     float32
	// Path holds the position before each step, oldest first.
	Path []vector.Vec2
}

// Radius is the radius of a disc whose area equals the mass.
func (b Body) Radius() float32 { return math32.Sqrt(max(b.Mass, 0) / math32.Pi) }

// Celestial simulates bodies under pairwise attraction and draws their paths.
type Celestial struct {
	settings CelestialSettings
	bodies   []Body
	seed     uint64
}

// maxPlacementTries bounds rejection sampling of initial positions.
const maxPlacementTries = 64

// NewCelestial validates settings and samples the initial bodies. The last
// body's velocity is chosen so the total momentum is zero.
func NewCelestial(settings CelestialSettings) (*Celestial, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.RenderCount == 0 {
		settings.RenderCount = settings.ObjectCount
	}
	if settings.View.Empty() || settings.View == (vector.Rect{}) {
		settings.View = defaultView
	}
	src, seed := newSource(settings.Seed)
	c := &Celestial{settings: settings, seed: seed}
	c.bodies = c.sample(src)
	return c, nil
}

func (c *Celestial) sample(src rand.Source) []Body {
	s := c.settings
	pos := s.Position.build(src)
	mass := s.Mass.build(src)
	vel := s.Velocity.build(src)
	sample2 := func(d Distribution) vector.Vec2 {
		return vector.V(float32(d.Rand()), float32(d.Rand()))
	}

	bodies := make([]Body, s.ObjectCount)
	var momentum vector.Vec2
	for i := range bodies {
		p := sample2(pos)
		if r := s.MaxRadiusFromCenter; r > 0 {
			for try := 1; p.Length() > r && try < maxPlacementTries; try++ {
				p = sample2(pos)
			}
			if l := p.Length(); l > r {
				p = p.Scale(r / l)
			}
		}
		b := Body{
			Position: p,
			Mass:     float32(mass.Rand()),
			Velocity: sample2(vel),
			Path:     make([]vector.Vec2, 0, s.Steps),
		}
		if i < len(bodies)-1 {
			momentum = momentum.Add(b.Velocity.Scale(b.Mass))
		}
		bodies[i] = b
	}

	last := &bodies[len(bodies)-1]
	switch {
	case len(bodies) == 1, last.Mass == 0:
		last.Velocity = vector.Vec2{}
	default:
		last.Velocity = momentum.Scale(-1 / last.Mass)
	}
	return bodies
}

// Seed returns the seed the bodies were sampled with.
func (c *Celestial) Seed() uint64 { return c.seed }

// Objects returns a copy of the current bodies.
func (c *Celestial) Objects() []Body {
	out := make([]Body, len(c.bodies))
	for i, b := range c.bodies {
		b.Path = append([]vector.Vec2(nil), b.Path...)
		out[i] = b
	}
	return out
}

// Momentum returns the sum of mass times velocity over all bodies.
func (c *Celestial) Momentum() vector.Vec2 {
	var m vector.Vec2
	for _, b := range c.bodies {
		m = m.Add(b.Velocity.Scale(b.Mass))
	}
	return m
}

// Step advances the simulation by one step. Forces are computed from the
// positions at the start of the step; bodies at exactly the same position
// exert no force on each other.
func (c *Celestial) Step() {
	type state struct {
		pos  vector.Vec2
		mass float32
	}
	prev := make([]state, len(c.bodies))
	for i, b := range c.bodies {
		prev[i] = state{b.Position, b.Mass}
	}

	g, dt, minDist := c.settings.G, c.settings.StepLength, c.settings.MinDistance
	for i := range c.bodies {
		b := &c.bodies[i]
		var force vector.Vec2
		for _, o := range prev {
			if o.pos == b.Position {
				continue
			}
			d := max(b.Position.Distance(o.pos), minDist)
			force = force.Add(o.pos.Sub(b.Position).Scale(g * b.Mass * o.mass / d))
		}
		b.Path = append(b.Path, b.Position)
		b.Velocity = b.Velocity.Add(force.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// Run simulates every step and draws the tracked bodies.
func (c *Celestial) Run(progress Progress) (*Output, error) {
	l := applog.WithComponent("sketch")
	l.Debug("celestial start",
		slog.Int("objects", c.settings.ObjectCount),
		slog.Int("steps", c.settings.Steps),
		slog.Uint64("seed", c.seed))

	for i := range c.settings.Steps {
		progress.report(i, c.settings.Steps)
		c.Step()
	}
	canvas := c.draw()

	l.Debug("celestial done", slog.Int("shapes", canvas.Len()))
	return VectorOutput(canvas), nil
}

func (c *Celestial) draw() *vector.Canvas {
	s := c.settings
	canvas := vector.NewCanvas(s.RenderCount)
	fill := vector.Solid(s.Foreground)
	for _, b := range c.bodies[:s.RenderCount] {
		r := b.Radius()
		if !s.RenderDots {
			canvas.DrawPolyLine(append([]vector.Vec2(nil), b.Path...), vector.Line(s.Foreground, 2*r, vector.EndRound))
			continue
		}
		view := s.View.Inset(-(s.ViewMargin + r))
		for _, p := range b.Path {
			if s.CullDots && !view.Contains(p) {
				continue
			}
			canvas.DrawCircle(p, r, fill, vector.NoStroke)
		}
	}
	return canvas
}
