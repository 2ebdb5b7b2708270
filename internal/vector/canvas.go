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

import "iter"

// Canvas is an ordered, append-only list of shapes in camera space.
// Insertion order is paint order. Rendering never mutates a canvas.
type Canvas struct {
	shapes []Shape
}

// NewCanvas returns an empty canvas with room for capacity shapes.
func NewCanvas(capacity int) *Canvas {
	return &Canvas{shapes: make([]Shape, 0, max(capacity, 0))}
}

// Draw appends a shape.
func (c *Canvas) Draw(s Shape) { c.shapes = append(c.shapes, s) }

// DrawPolygon appends a closed polygon.
func (c *Canvas) DrawPolygon(points []Vec2, fill Fill, stroke Stroke) {
	c.Draw(NewPolygon(points, fill, stroke))
}

// DrawPolyLine appends an open path.
func (c *Canvas) DrawPolyLine(points []Vec2, stroke Stroke) {
	c.Draw(NewPolyLine(points, stroke))
}

// DrawCircle appends a circle.
func (c *Canvas) DrawCircle(center Vec2, radius float32, fill Fill, stroke Stroke) {
	c.Draw(NewCircle(center, radius, fill, stroke))
}

// DrawRegularPolygon appends a regular polygon.
func (c *Canvas) DrawRegularPolygon(center Vec2, sides int, radius, rotation float32, fill Fill, stroke Stroke) {
	c.Draw(NewRegularPolygon(center, sides, radius, rotation, fill, stroke))
}

// Len reports the number of shapes.
func (c *Canvas) Len() int { return len(c.shapes) }

// At returns the i-th shape.
func (c *Canvas) At(i int) Shape { return c.shapes[i] }

// All iterates shapes in insertion order.
func (c *Canvas) All() iter.Seq2[int, Shape] {
	return func(yield func(int, Shape) bool) {
		for i, s := range c.shapes {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Each calls fn with a pointer to every shape so it can be edited in place.
func (c *Canvas) Each(fn func(*Shape)) {
	for i := range c.shapes {
		fn(&c.shapes[i])
	}
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{shapes: make([]Shape, len(c.shapes))}
	for i, s := range c.shapes {
		out.shapes[i] = s.Clone()
	}
	return out
}

// Transform applies m to every shape in place.
func (c *Canvas) Transform(m Affine2D) {
	for i, s := range c.shapes {
		c.shapes[i] = s.Transform(m)
	}
}

// Zoom scales every position and radius by factor about the camera origin.
// Stroke widths are left untouched.
func (c *Canvas) Zoom(factor float32) {
	c.Transform(Scale(factor, factor))
}

// Bounds returns the union of all shape bounds.
func (c *Canvas) Bounds() Rect {
	b := EmptyRect
	for _, s := range c.shapes {
		b = b.Union(s.Bounds())
	}
	return b
}
