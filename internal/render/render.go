/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render turns a vector canvas into concrete artifacts: SVG text,
// raster images, PDF documents, or draw calls on a live surface. Every
// backend implements Renderer and consumes shapes in insertion order.
package render

import (
	"errors"
	"fmt"
	"strings"

	"genart/internal/vector"
)

// ErrFinalized is returned when a renderer is used after Finalize.
var ErrFinalized = errors.New("render: renderer already finalized")

// Renderer consumes shapes one at a time and produces a T on Finalize.
// After Finalize the renderer must not be reused.
type Renderer[T any] interface {
	Render(shape vector.Shape) error
	Finalize() (T, error)
}

// Draw feeds every shape of canvas to r in order, then finalizes.
func Draw[T any](canvas *vector.Canvas, r Renderer[T]) (T, error) {
	for i, s := range canvas.All() {
		if err := r.Render(s); err != nil {
			var zero T
			return zero, fmt.Errorf("render shape %d (%s): %w", i, s.Kind, err)
		}
	}
	return r.Finalize()
}

// Fit selects which device dimension spans the camera's -1..1 range.
type Fit uint8

const (
	// FitMin maps -1..1 onto the shorter side so the unit square is always visible.
	FitMin Fit = iota
	// FitWidth maps -1..1 onto the width.
	FitWidth
	// FitHeight maps -1..1 onto the height.
	FitHeight
)

func (f Fit) String() string {
	switch f {
	case FitWidth:
		return "width"
	case FitHeight:
		return "height"
	default:
		return "min"
	}
}

// ParseFit accepts "min", "width" or "height"; empty means min.
func ParseFit(s string) (Fit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "min":
		return FitMin, nil
	case "width":
		return FitWidth, nil
	case "height":
		return FitHeight, nil
	default:
		return FitMin, fmt.Errorf("unknown fit %q", s)
	}
}

// Viewport maps camera space (+y up, origin at the center) to device pixels
// (+y down, origin at the top-left).
type Viewport struct {
	Width, Height int
	Fit           Fit
}

// Scale is the number of device units per camera unit.
func (v Viewport) Scale() float32 {
	w, h := float32(v.Width), float32(v.Height)
	switch v.Fit {
	case FitWidth:
		return w / 2
	case FitHeight:
		return h / 2
	default:
		return min(w, h) / 2
	}
}

// ToDevice maps a camera-space point to device coordinates.
func (v Viewport) ToDevice(p vector.Vec2) vector.Vec2 {
	s := v.Scale()
	return vector.Vec2{X: p.X*s + float32(v.Width)/2, Y: -p.Y*s + float32(v.Height)/2}
}

// Length maps a camera-space distance (radius, stroke width) to device units.
func (v Viewport) Length(l float32) float32 { return l * v.Scale() }

// Affine returns ToDevice as a matrix.
func (v Viewport) Affine() vector.Affine2D {
	s := v.Scale()
	return vector.Affine2D{A: s, D: -s, E: float32(v.Width) / 2, F: float32(v.Height) / 2}
}

// lifecycle tracks the Configured → Rendering → Finalized state shared by all backends.
type lifecycle struct {
	finalized bool
	shapes    int
}

func (l *lifecycle) begin() error {
	if l.finalized {
		return ErrFinalized
	}
	l.shapes++
	return nil
}

func (l *lifecycle) finish() error {
	if l.finalized {
		return ErrFinalized
	}
	l.finalized = true
	return nil
}
