/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"genart/internal/render"
	"genart/internal/sketch"
	"genart/internal/vector"
)

func TestBuiltinPresetsParse(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			p, err := Builtin(k)
			require.NoError(t, err)
			require.Equal(t, k, p.Sketch)
			opt, err := p.Export()
			require.NoError(t, err)
			require.Equal(t, 1200, opt.Width)
			require.Equal(t, vector.White, opt.Background)
		})
	}
}

func TestBuiltinSettingsValidate(t *testing.T) {
	p, err := Builtin(Celestial)
	require.NoError(t, err)
	cs, err := p.CelestialSettings()
	require.NoError(t, err)
	require.NoError(t, cs.Validate())
	require.Equal(t, sketch.DistNormal, cs.Velocity.Kind)

	p, err = Builtin(Preslav)
	require.NoError(t, err)
	ps, err := p.PreslavSettings(300, 200)
	require.NoError(t, err)
	require.NoError(t, ps.Validate())
	require.Equal(t, 5000, ps.Shapes)
	require.InDelta(t, (1-0.274)/5000.0, ps.AlphaIncrease, 1e-9)

	p, err = Builtin(Halftone)
	require.NoError(t, err)
	hs, err := p.HalftoneSettings()
	require.NoError(t, err)
	require.NoError(t, hs.Validate())

	p, err = Builtin(Waves)
	require.NoError(t, err)
	ws, err := p.WaveSettings()
	require.NoError(t, err)
	require.NoError(t, ws.Validate())
	require.True(t, ws.Stroke.Enabled)
	require.Equal(t, vector.EndRound, ws.Stroke.End)
}

func TestOverridesKeepDefaults(t *testing.T) {
	doc := `
version: 1
sketch: celestial
seed: 77
output:
  width: 640
  height: 480
  fit: width
  background: "#102030"
celestial:
  object_count: 9
  render_dots: true
  mass: {kind: constant, a: 0.5}
`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	s, err := p.CelestialSettings()
	require.NoError(t, err)

	def := sketch.DefaultCelestialSettings()
	require.Equal(t, 9, s.ObjectCount)
	require.True(t, s.RenderDots)
	require.Equal(t, sketch.Constant(0.5).Kind, s.Mass.Kind)
	require.Equal(t, def.Steps, s.Steps)
	require.Equal(t, def.Position, s.Position)
	require.Equal(t, uint64(77), s.Seed)

	opt, err := p.Export()
	require.NoError(t, err)
	require.Equal(t, render.FitWidth, opt.Fit)
	require.Equal(t, 640, opt.Width)
	r, g, b, a := opt.Background.RGBA8()
	require.Equal(t, [4]uint8{0x10, 0x20, 0x30, 0xff}, [4]uint8{r, g, b, a})
}

func TestWaveStrokeSection(t *testing.T) {
	doc := `
version: 1
sketch: waves
waves:
  stroke: {color: "#FF0000", width: 0.01, end: butt}
  stroke_with_frequency: true
`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	s, err := p.WaveSettings()
	require.NoError(t, err)
	require.Equal(t, vector.RGB(1, 0, 0), s.Stroke.Color)
	require.InDelta(t, 0.01, s.Stroke.Width, 1e-7)
	require.Equal(t, vector.EndButt, s.Stroke.End)
	require.True(t, s.StrokeWithFrequency)
	require.Equal(t, sketch.DefaultWaveSettings().SkipRows, s.SkipRows)
}

func TestSchemaRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown sketch":   "version: 1\nsketch: mandelbrot\n",
		"missing version":  "sketch: waves\n",
		"unknown field":    "version: 1\nsketch: waves\nwaves: {wobble: 3}\n",
		"bad color":        "version: 1\nsketch: halftone\nhalftone: {dot_color: red}\n",
		"too few edges":    "version: 1\nsketch: preslav\npreslav: {min_edge_count: 2}\n",
		"zero density":     "version: 1\nsketch: halftone\nhalftone: {dot_density: 0}\n",
		"bad distribution": "version: 1\nsketch: celestial\ncelestial: {mass: {kind: poisson}}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidPreset)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			require.NotEmpty(t, se.Problems)
		})
	}
}

func TestWrongSectionAccessor(t *testing.T) {
	p, err := Parse([]byte("version: 1\nsketch: halftone\n"))
	require.NoError(t, err)
	_, err = p.CelestialSettings()
	require.ErrorIs(t, err, ErrInvalidPreset)
	hs, err := p.HalftoneSettings()
	require.NoError(t, err)
	require.Equal(t, sketch.DefaultHalftoneSettings(), hs)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nsketch: preslav\nseed: 5\npreslav: {shapes: 10}\n"), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	s, err := p.PreslavSettings(10, 10)
	require.NoError(t, err)
	require.Equal(t, 10, s.Shapes)
	require.Equal(t, uint64(5), s.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidPreset)
}
