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
	"image"

	"github.com/gogpu/gg"

	"genart/internal/vector"
)

// GGSurface adapts a gg.Context to Surface. gg keeps a single brush for fill
// and stroke, so the adapter remembers both colors and selects one before
// each paint call.
type GGSurface struct {
	dc           *gg.Context
	fill, stroke vector.Color
}

// NewGGSurface allocates an in-memory gg context of the given size.
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{dc: gg.NewContext(width, height)}
}

// WrapGG adapts an existing context.
func WrapGG(dc *gg.Context) *GGSurface { return &GGSurface{dc: dc} }

func (s *GGSurface) Context() *gg.Context { return s.dc }
func (s *GGSurface) Image() image.Image   { return s.dc.Image() }
func (s *GGSurface) Close() error         { return s.dc.Close() }

func (s *GGSurface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

func (s *GGSurface) SetFillColor(c vector.Color)   { s.fill = c }
func (s *GGSurface) SetStrokeColor(c vector.Color) { s.stroke = c }
func (s *GGSurface) SetLineWidth(w float32)        { s.dc.SetLineWidth(float64(w)) }

func (s *GGSurface) SetLineCap(e vector.LineEnd) {
	if e == vector.EndRound {
		s.dc.SetLineCap(gg.LineCapRound)
		return
	}
	s.dc.SetLineCap(gg.LineCapButt)
}

func (s *GGSurface) BeginPath()          { s.dc.ClearPath() }
func (s *GGSurface) MoveTo(x, y float32) { s.dc.MoveTo(float64(x), float64(y)) }
func (s *GGSurface) LineTo(x, y float32) { s.dc.LineTo(float64(x), float64(y)) }
func (s *GGSurface) ClosePath()          { s.dc.ClosePath() }

func (s *GGSurface) Circle(x, y, r float32) {
	s.dc.DrawCircle(float64(x), float64(y), float64(r))
}

func (s *GGSurface) Fill() error {
	setRGBA(s.dc, s.fill)
	return s.dc.FillPreserve()
}

func (s *GGSurface) Stroke() error {
	setRGBA(s.dc, s.stroke)
	return s.dc.StrokePreserve()
}

func (s *GGSurface) FillRect(x, y, w, h float32) error {
	s.dc.ClearPath()
	s.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	setRGBA(s.dc, s.fill)
	return s.dc.Fill()
}

func setRGBA(dc *gg.Context, c vector.Color) {
	c = c.Clamp()
	dc.SetRGBA(float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}
