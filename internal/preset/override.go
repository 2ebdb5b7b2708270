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
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"genart/internal/raster"
	"genart/internal/sketch"
)

var outputKeys = map[string]bool{
	"width": true, "height": true, "background": true, "fit": true,
	"aliased": true, "precision": true, "integers_only": true,
}

// WithOverrides starts from the builtin preset for kind and applies flat
// key=value overrides. "seed" and the output keys (width, height, background,
// fit, ...) go to their own sections; every other key addresses the sketch
// section, with dots selecting nested maps ("stroke.width", "mass.kind").
// Values are read as YAML scalars. The result is validated like any document.
func WithOverrides(kind Kind, overrides map[string]string) (*Preset, error) {
	data, err := BuiltinYAML(kind)
	if err != nil {
		return nil, err
	}
	return overlay(data, overrides)
}

// LoadWithOverrides reads the preset at path and applies overrides the same
// way WithOverrides does.
func LoadWithOverrides(path string, overrides map[string]string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return overlay(data, overrides)
}

func overlay(data []byte, overrides map[string]string) (*Preset, error) {
	if len(overrides) == 0 {
		return Parse(data)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	kind, _ := doc["sketch"].(string)
	if kind == "" {
		return nil, fmt.Errorf("%w: overrides need the sketch field", ErrInvalidPreset)
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := strings.Split(strings.TrimSpace(k), ".")
		switch {
		case k == "seed":
		case outputKeys[k]:
			path = []string{"output", k}
		default:
			path = append([]string{kind}, path...)
		}
		if err := setPath(doc, path, scalar(overrides[k])); err != nil {
			return nil, fmt.Errorf("%w: override %s: %v", ErrInvalidPreset, k, err)
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return Parse(out)
}

// scalar decodes s as a YAML scalar, keeping it as a plain string when YAML
// would read it as a comment or a collection.
func scalar(s string) any {
	if strings.HasPrefix(s, "#") {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return s
	}
	return v
}

func setPath(doc map[string]any, path []string, v any) error {
	m := doc
	for i, p := range path {
		if p == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			m[p] = v
			return nil
		}
		next, ok := m[p].(map[string]any)
		if !ok {
			if m[p] != nil {
				return fmt.Errorf("%s is not a section", p)
			}
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	return nil
}

// Sketcher builds the sketch the preset describes. img is required for every
// kind except celestial.
func (p *Preset) Sketcher(img *raster.Canvas) (sketch.Sketcher, error) {
	switch p.Sketch {
	case Celestial:
		s, err := p.CelestialSettings()
		if err != nil {
			return nil, err
		}
		return sketch.NewCelestial(s)
	case Preslav:
		w, h := 0, 0
		if img != nil {
			w, h = img.Size()
		}
		s, err := p.PreslavSettings(w, h)
		if err != nil {
			return nil, err
		}
		return sketch.NewPreslav(img, s)
	case Halftone:
		s, err := p.HalftoneSettings()
		if err != nil {
			return nil, err
		}
		return sketch.NewHalftone(img, s)
	case Waves:
		s, err := p.WaveSettings()
		if err != nil {
			return nil, err
		}
		return sketch.NewWave(img, s)
	}
	return nil, fmt.Errorf("%w: unknown sketch %q", ErrInvalidPreset, p.Sketch)
}
