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

// Basic 2D geometry and transforms in camera space.
// Camera space is roughly -1..1 on the shorter axis with +y pointing up.
// Float values use float32 throughout.

import "github.com/chewxy/math32"

// Vec2 is a 2D point or direction.
type Vec2 struct{ X, Y float32 }

// V is shorthand for Vec2{x, y}.
func V(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2         { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(s float32) Vec2    { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2               { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float32      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Length() float32         { return math32.Hypot(v.X, v.Y) }
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }

// Rotate rotates v counter-clockwise by rad around the origin.
func (v Vec2) Rotate(rad float32) Vec2 {
	s, c := math32.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Rect is an axis-aligned rectangle defined by its min and max corners.
type Rect struct{ Min, Max Vec2 }

// EmptyRect is the identity for Union.
var EmptyRect = Rect{Min: Vec2{math32.Inf(1), math32.Inf(1)}, Max: Vec2{math32.Inf(-1), math32.Inf(-1)}}

func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }
func (r Rect) W() float32  { return r.Max.X - r.Min.X }
func (r Rect) H() float32  { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Max.X && p.Y <= r.Max.Y
}

// Extend grows r to include p.
func (r Rect) Extend(p Vec2) Rect {
	return Rect{
		Min: Vec2{min(r.Min.X, p.X), min(r.Min.Y, p.Y)},
		Max: Vec2{max(r.Max.X, p.X), max(r.Max.Y, p.Y)},
	}
}

// Inset returns a rectangle inset by d on all sides (negative grows).
func (r Rect) Inset(d float32) Rect {
	return Rect{Min: Vec2{r.Min.X + d, r.Min.Y + d}, Max: Vec2{r.Max.X - d, r.Max.Y - d}}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float32 }

var Identity = Affine2D{A: 1, D: 1}

// Mul returns m·n, i.e. n is applied first.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector applies only the linear part of m.
func (m Affine2D) ApplyVector(p Vec2) Vec2 {
	return Vec2{X: m.A*p.X + m.C*p.Y, Y: m.B*p.X + m.D*p.Y}
}

// ScaleFactor is the geometric mean scale of m, used for radii.
func (m Affine2D) ScaleFactor() float32 {
	return math32.Sqrt(math32.Abs(m.A*m.D - m.B*m.C))
}

func Translate(tx, ty float32) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float32) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float32) Affine2D {
	s, c := math32.Sincos(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// ScaleAbout scales by factor around center.
func ScaleAbout(center Vec2, factor float32) Affine2D {
	return Translate(center.X, center.Y).Mul(Scale(factor, factor)).Mul(Translate(-center.X, -center.Y))
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float32, places int) float32 {
	if places < 0 {
		return v
	}
	pow := math32.Pow(10, float32(places))
	return math32.Round(v*pow) / pow
}
