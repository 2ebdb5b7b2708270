/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package preset loads sketch presets: YAML documents naming a sketch, its
// settings and output options. Documents are checked against an embedded JSON
// schema before they are mapped onto the sketch settings, and every field left
// out keeps the sketch's default.
package preset

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"genart/internal/export"
	"genart/internal/render"
	"genart/internal/sketch"
	"genart/internal/vector"
)

//go:embed preset.schema.json
var schemaJSON []byte

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrInvalidPreset is wrapped by every error caused by the document content.
var ErrInvalidPreset = errors.New("invalid preset")

// SchemaError lists schema violations.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "preset does not conform to schema: " + strings.Join(e.Problems, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrInvalidPreset }

// Kind names a sketch.
type Kind string

const (
	Celestial Kind = "celestial"
	Preslav   Kind = "preslav"
	Halftone  Kind = "halftone"
	Waves     Kind = "waves"
)

// Kinds lists every sketch a preset can describe.
func Kinds() []Kind { return []Kind{Celestial, Preslav, Halftone, Waves} }

// Output holds render settings for the sketch result.
type Output struct {
	Width        int          `yaml:"width"`
	Height       int          `yaml:"height"`
	Background   vector.Color `yaml:"background"`
	Fit          string       `yaml:"fit"`
	Aliased      bool         `yaml:"aliased"`
	Precision    int          `yaml:"precision"`
	IntegersOnly bool         `yaml:"integers_only"`
}

// Preset is a parsed document. Sketch sections stay undecoded until the
// matching accessor is called so defaults that depend on the input image can
// be applied first.
type Preset struct {
	Version int    `yaml:"version"`
	Sketch  Kind   `yaml:"sketch"`
	Seed    uint64 `yaml:"seed"`
	Output  Output `yaml:"output"`

	CelestialSection yaml.Node `yaml:"celestial"`
	PreslavSection   yaml.Node `yaml:"preslav"`
	HalftoneSection  yaml.Node `yaml:"halftone"`
	WavesSection     yaml.Node `yaml:"waves"`
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Preset, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	if err := validate(generic); err != nil {
		return nil, err
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return &p, nil
}

func validate(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{}
	for _, e := range result.Errors() {
		se.Problems = append(se.Problems, e.String())
	}
	return se
}

// Load reads and parses the preset at path.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// BuiltinYAML returns the source of the preset shipped for kind.
func BuiltinYAML(kind Kind) ([]byte, error) {
	data, err := builtinFS.ReadFile("builtin/" + string(kind) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no builtin preset for %q", kind)
	}
	return data, nil
}

// Builtin returns the preset shipped for kind.
func Builtin(kind Kind) (*Preset, error) {
	data, err := BuiltinYAML(kind)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Export returns the export options described by the output section.
func (p *Preset) Export() (export.Options, error) {
	fit, err := render.ParseFit(p.Output.Fit)
	if err != nil {
		return export.Options{}, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return export.Options{
		Width:        p.Output.Width,
		Height:       p.Output.Height,
		Background:   p.Output.Background,
		Fit:          fit,
		Aliased:      p.Output.Aliased,
		Precision:    p.Output.Precision,
		IntegersOnly: p.Output.IntegersOnly,
	}, nil
}

func (p *Preset) expect(kind Kind) error {
	if p.Sketch != kind {
		return fmt.Errorf("%w: preset is for %s, not %s", ErrInvalidPreset, p.Sketch, kind)
	}
	return nil
}

func decodeSection(n *yaml.Node, v any) error {
	if n.Kind == 0 {
		return nil
	}
	if err := n.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return nil
}

// CelestialSettings overlays the celestial section on the defaults.
func (p *Preset) CelestialSettings() (sketch.CelestialSettings, error) {
	s := sketch.DefaultCelestialSettings()
	if err := p.expect(Celestial); err != nil {
		return s, err
	}
	if err := decodeSection(&p.CelestialSection, &s); err != nil {
		return s, err
	}
	s.Seed = p.Seed
	return s, nil
}

// PreslavSettings overlays the preslav section on defaults derived from the
// input image size and the configured shape count.
func (p *Preset) PreslavSettings(width, height int) (sketch.PreslavSettings, error) {
	var probe struct {
		Shapes *int `yaml:"shapes"`
	}
	if err := p.expect(Preslav); err != nil {
		return sketch.PreslavSettings{}, err
	}
	if err := decodeSection(&p.PreslavSection, &probe); err != nil {
		return sketch.PreslavSettings{}, err
	}
	shapes := 1000
	if probe.Shapes != nil {
		shapes = *probe.Shapes
	}
	s := sketch.DefaultPreslavSettings(width, height, shapes)
	if err := decodeSection(&p.PreslavSection, &s); err != nil {
		return s, err
	}
	s.Seed = p.Seed
	return s, nil
}

// HalftoneSettings overlays the halftone section on the defaults.
func (p *Preset) HalftoneSettings() (sketch.HalftoneSettings, error) {
	s := sketch.DefaultHalftoneSettings()
	if err := p.expect(Halftone); err != nil {
		return s, err
	}
	return s, decodeSection(&p.HalftoneSection, &s)
}

type strokeDoc struct {
	Color *vector.Color `yaml:"color"`
	Width *float32      `yaml:"width"`
	End   string        `yaml:"end"`
}

type wavesDoc struct {
	sketch.WaveSettings `yaml:",inline"`
	Stroke              strokeDoc `yaml:"stroke"`
}

// WaveSettings overlays the waves section on the defaults.
func (p *Preset) WaveSettings() (sketch.WaveSettings, error) {
	doc := wavesDoc{WaveSettings: sketch.DefaultWaveSettings()}
	if err := p.expect(Waves); err != nil {
		return doc.WaveSettings, err
	}
	if err := decodeSection(&p.WavesSection, &doc); err != nil {
		return doc.WaveSettings, err
	}
	s := doc.WaveSettings
	if doc.Stroke.Color != nil {
		s.Stroke.Color = *doc.Stroke.Color
	}
	if doc.Stroke.Width != nil {
		s.Stroke.Width = *doc.Stroke.Width
	}
	switch doc.Stroke.End {
	case "":
	case vector.EndButt.String():
		s.Stroke.End = vector.EndButt
	case vector.EndRound.String():
		s.Stroke.End = vector.EndRound
	default:
		return s, fmt.Errorf("%w: unknown line end %q", ErrInvalidPreset, doc.Stroke.End)
	}
	return s, nil
}
