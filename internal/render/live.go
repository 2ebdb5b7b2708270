/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"

	"genart/internal/vector"
)

// Surface is an immediate-mode 2D drawing target with canvas-style path
// state, such as a window or an in-memory gg context. Coordinates are in
// device units.
type Surface interface {
	Size() (width, height int)
	SetFillColor(c vector.Color)
	SetStrokeColor(c vector.Color)
	SetLineWidth(w float32)
	SetLineCap(e vector.LineEnd)
	BeginPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	Circle(x, y, r float32)
	ClosePath()
	Fill() error
	Stroke() error
	FillRect(x, y, w, h float32) error
}

// LiveOptions controls incremental rendering.
type LiveOptions struct {
	Background vector.Color
	Fit        Fit
}

// LiveRenderer draws each shape onto a Surface as soon as it is rendered.
// Redundant style changes are skipped by remembering what the surface holds.
type LiveRenderer struct {
	surf Surface
	vp   Viewport
	lc   lifecycle

	fill, stroke     vector.Color
	width            float32
	end              vector.LineEnd
	hasFill, hasLine bool
	hasWidth, hasEnd bool
}

// NewLive paints the background, if any, and returns a renderer bound to surf.
func NewLive(surf Surface, opt LiveOptions) (*LiveRenderer, error) {
	w, h := surf.Size()
	r := &LiveRenderer{surf: surf, vp: Viewport{Width: w, Height: h, Fit: opt.Fit}}
	if opt.Background.A > 0 {
		r.setFill(opt.Background)
		if err := surf.FillRect(0, 0, float32(w), float32(h)); err != nil {
			return nil, fmt.Errorf("live: background: %w", err)
		}
	}
	return r, nil
}

func (r *LiveRenderer) setFill(c vector.Color) {
	if r.hasFill && r.fill == c {
		return
	}
	r.surf.SetFillColor(c)
	r.fill, r.hasFill = c, true
}

func (r *LiveRenderer) setStroke(st vector.Stroke) {
	if !r.hasLine || r.stroke != st.Color {
		r.surf.SetStrokeColor(st.Color)
		r.stroke, r.hasLine = st.Color, true
	}
	if w := r.vp.Length(st.Width); !r.hasWidth || r.width != w {
		r.surf.SetLineWidth(w)
		r.width, r.hasWidth = w, true
	}
	if !r.hasEnd || r.end != st.End {
		r.surf.SetLineCap(st.End)
		r.end, r.hasEnd = st.End, true
	}
}

// Render issues the path and paint calls for s.
func (r *LiveRenderer) Render(s vector.Shape) error {
	if err := r.lc.begin(); err != nil {
		return err
	}
	fill, line := s.Fillable(), s.Stroke.Visible()
	if !fill && !line {
		return nil
	}
	r.surf.BeginPath()
	if s.Kind == vector.Circle {
		c := r.vp.ToDevice(s.Center)
		r.surf.Circle(c.X, c.Y, r.vp.Length(s.Radius))
	} else {
		pts := s.Vertices()
		if len(pts) == 0 {
			return nil
		}
		p0 := r.vp.ToDevice(pts[0])
		r.surf.MoveTo(p0.X, p0.Y)
		for _, p := range pts[1:] {
			d := r.vp.ToDevice(p)
			r.surf.LineTo(d.X, d.Y)
		}
		if s.Closed() {
			r.surf.ClosePath()
		}
	}
	if fill {
		r.setFill(s.Fill.Color)
		if err := r.surf.Fill(); err != nil {
			return fmt.Errorf("live: fill: %w", err)
		}
	}
	if line {
		r.setStroke(s.Stroke)
		if err := r.surf.Stroke(); err != nil {
			return fmt.Errorf("live: stroke: %w", err)
		}
	}
	return nil
}

// Finalize ends the session; the surface already holds the result.
func (r *LiveRenderer) Finalize() (struct{}, error) {
	return struct{}{}, r.lc.finish()
}
