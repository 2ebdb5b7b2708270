/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package sketch contains the generative algorithms. Each sketcher validates
// its settings up front, runs synchronously, reports progress through an
// optional callback, and produces an Output holding a vector or raster canvas.
package sketch

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"genart/internal/raster"
	"genart/internal/render"
	"genart/internal/vector"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid sketch configuration")

// ConfigError describes one invalid setting. It is always reported before any
// simulation or drawing work starts.
type ConfigError struct {
	Sketch string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Sketch, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(sketch, field, format string, args ...any) error {
	return &ConfigError{Sketch: sketch, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Progress receives the fraction of work done, in [0, 1), before each outer
// iteration. It may be nil.
type Progress func(fraction float32)

func (p Progress) report(done, total int) {
	if p == nil || total <= 0 {
		return
	}
	p(float32(done) / float32(total))
}

// Sketcher is implemented by every algorithm in this package.
type Sketcher interface {
	Run(progress Progress) (*Output, error)
}

// Output holds exactly one of a vector or a raster canvas and converts
// between them on demand.
type Output struct {
	vec *vector.Canvas
	ras *raster.Canvas
}

// VectorOutput wraps a vector canvas.
func VectorOutput(c *vector.Canvas) *Output { return &Output{vec: c} }

// RasterOutput wraps a raster canvas.
func RasterOutput(c *raster.Canvas) *Output { return &Output{ras: c} }

// IsVector reports whether the output is natively vector.
func (o *Output) IsVector() bool { return o.vec != nil }

// Vector returns the vector canvas, converting a raster one pixel per square.
func (o *Output) Vector() *vector.Canvas {
	if o.vec != nil {
		return o.vec
	}
	return Pixelate(o.ras)
}

// Raster returns the raster canvas, rasterizing a vector one with opt.
func (o *Output) Raster(opt render.RasterOptions) (*raster.Canvas, error) {
	if o.ras != nil {
		return o.ras, nil
	}
	return Rasterize(o.vec, opt)
}

// newSource returns a deterministic source for seed; seed 0 draws one from the
// clock. The effective seed is returned so runs can be reproduced.
func newSource(seed uint64) (rand.Source, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewSource(seed), seed
}

// uniform returns a float32 in [lo, hi).
func uniform(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// imageFrame maps image pixel coordinates to camera space: the image center
// becomes the origin, the shorter side spans -1..1, and y flips to point up.
type imageFrame struct {
	half  vector.Vec2
	scale float32
}

func frameFor(width, height int) imageFrame {
	major := float32(min(width, height))
	return imageFrame{
		half:  vector.V(float32(width)/2, float32(height)/2),
		scale: 2 / major,
	}
}

func (f imageFrame) toCamera(p vector.Vec2) vector.Vec2 {
	d := p.Sub(f.half)
	return vector.V(d.X*f.scale, -d.Y*f.scale)
}

func requireImage(sketch string, img *raster.Canvas) error {
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return configErr(sketch, "input", "image is empty")
	}
	return nil
}
