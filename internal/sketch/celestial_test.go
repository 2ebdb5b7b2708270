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

	"genart/internal/vector"
)

func threeBody() CelestialSettings {
	s := DefaultCelestialSettings()
	s.ObjectCount = 3
	s.RenderCount = 3
	s.G = 1
	s.Steps = 1000
	s.StepLength = 0.01
	s.Mass = Constant(1)
	s.Velocity = Constant(0)
	s.Position = Uniform(-0.5, 0.5)
	s.Seed = 42
	return s
}

func TestCelestialMomentumIsZeroAfterInit(t *testing.T) {
	s := DefaultCelestialSettings()
	s.ObjectCount = 7
	s.Mass = Uniform(0.5, 1.5)
	s.Velocity = Uniform(-1, 1)
	s.Seed = 7
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	if m := c.Momentum(); m.Length() > 1e-4 {
		t.Fatalf("momentum should be zero, got %+v", m)
	}
	var moving bool
	for _, b := range c.Objects()[:6] {
		if b.Velocity != (vector.Vec2{}) {
			moving = true
		}
	}
	if !moving {
		t.Fatalf("sampled velocities should not all be zero")
	}
}

func TestCelestialSingleObjectIsAtRest(t *testing.T) {
	s := DefaultCelestialSettings()
	s.ObjectCount = 1
	s.Velocity = Uniform(1, 2)
	s.Seed = 3
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	if v := c.Objects()[0].Velocity; v != (vector.Vec2{}) {
		t.Fatalf("lone body should be at rest, got %+v", v)
	}
}

func TestCelestialCoincidentBodiesExertNoForce(t *testing.T) {
	s := DefaultCelestialSettings()
	s.ObjectCount = 4
	s.Position = Constant(0.25)
	s.Mass = Constant(2)
	s.Velocity = Constant(0)
	s.StepLength = 0.1
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	c.Step()
	for i, b := range c.Objects() {
		if b.Velocity != (vector.Vec2{}) {
			t.Fatalf("body %d gained velocity %+v", i, b.Velocity)
		}
		if b.Position != vector.V(0.25, 0.25) {
			t.Fatalf("body %d moved to %+v", i, b.Position)
		}
		if len(b.Path) != 1 || b.Path[0] != vector.V(0.25, 0.25) {
			t.Fatalf("body %d path = %v", i, b.Path)
		}
	}
}

func TestCelestialPairAttracts(t *testing.T) {
	c := &Celestial{
		settings: CelestialSettings{G: 1, StepLength: 0.1},
		bodies: []Body{
			{Position: vector.V(-0.5, 0), Mass: 1},
			{Position: vector.V(0.5, 0), Mass: 1},
		},
	}
	c.Step()
	a, b := c.bodies[0], c.bodies[1]
	if math32.Abs(a.Velocity.X-0.1) > 1e-6 || math32.Abs(b.Velocity.X+0.1) > 1e-6 {
		t.Fatalf("unexpected velocities %+v %+v", a.Velocity, b.Velocity)
	}
	if math32.Abs(a.Position.X+0.49) > 1e-6 {
		t.Fatalf("position should integrate the new velocity, got %+v", a.Position)
	}
	if a.Path[0] != vector.V(-0.5, 0) {
		t.Fatalf("path should record the pre-step position, got %v", a.Path)
	}
}

func TestCelestialMinDistanceClampsForce(t *testing.T) {
	c := &Celestial{
		settings: CelestialSettings{G: 1, StepLength: 1, MinDistance: 1},
		bodies: []Body{
			{Position: vector.V(0, 0), Mass: 1},
			{Position: vector.V(0.01, 0), Mass: 1},
		},
	}
	c.Step()
	if v := c.bodies[0].Velocity.X; math32.Abs(v-0.01) > 1e-6 {
		t.Fatalf("force should use the clamped distance, got velocity %g", v)
	}
}

func TestCelestialScenarioPaths(t *testing.T) {
	c, err := NewCelestial(threeBody())
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	out, err := c.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.IsVector() {
		t.Fatalf("celestial output should be vector")
	}
	canvas := out.Vector()
	if canvas.Len() != 3 {
		t.Fatalf("expected 3 paths, got %d", canvas.Len())
	}
	for i, s := range canvas.All() {
		if s.Kind != vector.PolyLine {
			t.Fatalf("shape %d is %v", i, s.Kind)
		}
		if len(s.Points) != 1000 {
			t.Fatalf("shape %d has %d points", i, len(s.Points))
		}
		want := 2 * math32.Sqrt(1/math32.Pi)
		if math32.Abs(s.Stroke.Width-want) > 1e-6 || s.Stroke.End != vector.EndRound {
			t.Fatalf("shape %d stroke = %+v", i, s.Stroke)
		}
	}
}

func TestCelestialScenarioDots(t *testing.T) {
	s := threeBody()
	s.RenderDots = true
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	out, err := c.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	canvas := out.Vector()
	if canvas.Len() != 3*1000 {
		t.Fatalf("expected %d dots, got %d", 3*1000, canvas.Len())
	}
	if s := canvas.At(0); s.Kind != vector.Circle || !s.Fill.Enabled || s.Stroke.Enabled {
		t.Fatalf("dots should be filled circles, got %+v", s)
	}
}

func TestCelestialCullsDotsOutsideView(t *testing.T) {
	s := DefaultCelestialSettings()
	s.ObjectCount = 1
	s.Position = Constant(5)
	s.Mass = Constant(0.01)
	s.Steps = 10
	s.RenderDots = true

	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	out, _ := c.Run(nil)
	if n := out.Vector().Len(); n != 10 {
		t.Fatalf("without culling expected 10 dots, got %d", n)
	}

	s.CullDots = true
	c, err = NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	out, _ = c.Run(nil)
	if n := out.Vector().Len(); n != 0 {
		t.Fatalf("dots outside the view should be culled, got %d", n)
	}

	s.ViewMargin = 5
	c, _ = NewCelestial(s)
	out, _ = c.Run(nil)
	if n := out.Vector().Len(); n != 10 {
		t.Fatalf("a wide margin should keep every dot, got %d", n)
	}
}

func TestCelestialMaxRadiusFromCenter(t *testing.T) {
	s := DefaultCelestialSettings()
	s.ObjectCount = 50
	s.Position = Uniform(-1, 1)
	s.MaxRadiusFromCenter = 0.3
	s.Seed = 11
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	for i, b := range c.Objects() {
		if b.Position.Length() > 0.3+1e-5 {
			t.Fatalf("body %d placed at %+v", i, b.Position)
		}
	}
}

func TestCelestialRenderCountEqualToObjectCountIsValid(t *testing.T) {
	s := threeBody()
	s.RenderCount = s.ObjectCount
	if err := s.Validate(); err != nil {
		t.Fatalf("render_count == object_count should be valid: %v", err)
	}
}

func TestCelestialRenderCountSubset(t *testing.T) {
	s := threeBody()
	s.ObjectCount = 5
	s.RenderCount = 2
	s.Steps = 5
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	out, _ := c.Run(nil)
	if n := out.Vector().Len(); n != 2 {
		t.Fatalf("expected 2 rendered paths, got %d", n)
	}
}

func TestCelestialConfigErrors(t *testing.T) {
	cases := []struct {
		name  string
		field string
		edit  func(*CelestialSettings)
	}{
		{"no objects", "object_count", func(s *CelestialSettings) { s.ObjectCount = 0 }},
		{"render too many", "render_count", func(s *CelestialSettings) { s.RenderCount = s.ObjectCount + 1 }},
		{"negative steps", "steps", func(s *CelestialSettings) { s.Steps = -1 }},
		{"zero step length", "step_length", func(s *CelestialSettings) { s.StepLength = 0 }},
		{"bad distribution", "mass", func(s *CelestialSettings) { s.Mass = Dist{Kind: "poisson"} }},
		{"inverted bounds", "position", func(s *CelestialSettings) { s.Position = Uniform(1, -1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := threeBody()
			tc.edit(&s)
			_, err := NewCelestial(s)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestCelestialDeterministicForSeed(t *testing.T) {
	s := threeBody()
	s.Steps = 50
	run := func() []Body {
		c, err := NewCelestial(s)
		if err != nil {
			t.Fatalf("NewCelestial: %v", err)
		}
		if _, err := c.Run(nil); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return c.Objects()
	}
	a, b := run(), run()
	for i := range a {
		if a[i].Position != b[i].Position || a[i].Velocity != b[i].Velocity {
			t.Fatalf("body %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCelestialReportsProgress(t *testing.T) {
	s := threeBody()
	s.Steps = 4
	c, err := NewCelestial(s)
	if err != nil {
		t.Fatalf("NewCelestial: %v", err)
	}
	var got []float32
	if _, err := c.Run(func(f float32) { got = append(got, f) }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []float32{0, 0.25, 0.5, 0.75}
	if len(got) != len(want) {
		t.Fatalf("progress calls = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("progress[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
