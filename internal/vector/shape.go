/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Kind selects which variant of Shape is populated.
type Kind uint8

const (
	Polygon Kind = iota
	PolyLine
	Circle
	RegularPolygon
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case PolyLine:
		return "polyline"
	case Circle:
		return "circle"
	case RegularPolygon:
		return "regular-polygon"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// degenerateOffset separates the two points of a collapsed regular polygon.
const degenerateOffset = 1e-4

// Shape is a closed tagged union of drawable primitives in camera space.
//
//	Polygon:        Points, Fill, Stroke (implicitly closed)
//	PolyLine:       Points, Stroke (never closed, never filled)
//	Circle:         Center, Radius, Fill, Stroke
//	RegularPolygon: Center, Radius, Sides, Rotation, Fill, Stroke
//
// Shapes are plain values; renderers switch on Kind.
type Shape struct {
	Kind     Kind
	Points   []Vec2
	Center   Vec2
	Radius   float32
	Sides    int
	Rotation float32
	Fill     Fill
	Stroke   Stroke
}

// NewPolygon builds a closed polygon.
func NewPolygon(points []Vec2, fill Fill, stroke Stroke) Shape {
	return Shape{Kind: Polygon, Points: points, Fill: fill, Stroke: stroke}
}

// NewPolyLine builds an open path; it is never filled.
func NewPolyLine(points []Vec2, stroke Stroke) Shape {
	return Shape{Kind: PolyLine, Points: points, Stroke: stroke}
}

// NewCircle builds a circle.
func NewCircle(center Vec2, radius float32, fill Fill, stroke Stroke) Shape {
	return Shape{Kind: Circle, Center: center, Radius: radius, Fill: fill, Stroke: stroke}
}

// NewRegularPolygon builds an N-gon inscribed in a circle of radius around center.
func NewRegularPolygon(center Vec2, sides int, radius, rotation float32, fill Fill, stroke Stroke) Shape {
	return Shape{Kind: RegularPolygon, Center: center, Radius: radius, Sides: sides, Rotation: rotation, Fill: fill, Stroke: stroke}
}

// RegularPolygonPoints returns the vertices of a regular polygon. Vertex n sits at
// angle 2π·n/sides + rotation. When there are no vertices, or the first and last
// coincide (zero radius), a two-point stand-in is returned so callers always get
// a drawable path.
func RegularPolygonPoints(center Vec2, sides int, radius, rotation float32) []Vec2 {
	if sides > 0 {
		pts := make([]Vec2, sides)
		for n := range sides {
			a := 2*math32.Pi*float32(n)/float32(sides) + rotation
			s, c := math32.Sincos(a)
			pts[n] = Vec2{center.X + c*radius, center.Y + s*radius}
		}
		if pts[0] != pts[len(pts)-1] {
			return pts
		}
	}
	return []Vec2{center, {center.X + degenerateOffset, center.Y + degenerateOffset}}
}

// Vertices returns the outline points for polygonal kinds; circles return nil.
func (s Shape) Vertices() []Vec2 {
	switch s.Kind {
	case Polygon, PolyLine:
		return s.Points
	case RegularPolygon:
		return RegularPolygonPoints(s.Center, s.Sides, s.Radius, s.Rotation)
	default:
		return nil
	}
}

// Closed reports whether the outline joins back to its start.
func (s Shape) Closed() bool { return s.Kind != PolyLine }

// Fillable reports whether the fill applies to this kind.
func (s Shape) Fillable() bool { return s.Kind != PolyLine && s.Fill.Visible() }

// Bounds returns the geometric bounds, ignoring stroke width.
func (s Shape) Bounds() Rect {
	if s.Kind == Circle {
		r := Vec2{s.Radius, s.Radius}
		return Rect{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
	}
	b := EmptyRect
	for _, p := range s.Vertices() {
		b = b.Extend(p)
	}
	return b
}

// Clone returns a copy that shares no point storage with s.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		s.Points = append([]Vec2(nil), s.Points...)
	}
	return s
}

// Transform maps every position through m. Radii scale with m's mean scale;
// stroke widths are unchanged.
func (s Shape) Transform(m Affine2D) Shape {
	out := s
	if s.Points != nil {
		out.Points = make([]Vec2, len(s.Points))
		for i, p := range s.Points {
			out.Points[i] = m.Apply(p)
		}
	}
	out.Center = m.Apply(s.Center)
	out.Radius = s.Radius * m.ScaleFactor()
	if s.Kind == RegularPolygon {
		out.Rotation = s.Rotation + math32.Atan2(m.B, m.A)
	}
	return out
}
