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

import "testing"

func TestCanvasPreservesOrder(t *testing.T) {
	c := NewCanvas(0)
	c.DrawCircle(V(0, 0), 1, Solid(White), NoStroke)
	c.DrawPolyLine([]Vec2{V(0, 0), V(1, 1)}, Line(Black, 0.1, EndButt))
	c.DrawRegularPolygon(V(0, 0), 5, 1, 0, Solid(Black), NoStroke)
	if c.Len() != 3 {
		t.Fatalf("Len = %d", c.Len())
	}
	want := []Kind{Circle, PolyLine, RegularPolygon}
	for i, s := range c.All() {
		if s.Kind != want[i] {
			t.Fatalf("shape %d kind = %v, want %v", i, s.Kind, want[i])
		}
	}
}

func TestCanvasZoomKeepsStrokeWidth(t *testing.T) {
	c := NewCanvas(2)
	c.DrawCircle(V(0.5, -0.25), 0.1, NoFill, Line(Black, 0.02, EndRound))
	c.DrawPolygon([]Vec2{V(0, 0), V(1, 0), V(1, 1)}, Solid(White), Line(Black, 0.03, EndButt))
	c.Zoom(2)

	circle := c.At(0)
	if circle.Center != V(1, -0.5) || !near(circle.Radius, 0.2) {
		t.Fatalf("zoomed circle = %+v", circle)
	}
	if circle.Stroke.Width != 0.02 {
		t.Fatalf("stroke width changed: %v", circle.Stroke.Width)
	}
	poly := c.At(1)
	if poly.Points[2] != V(2, 2) || poly.Stroke.Width != 0.03 {
		t.Fatalf("zoomed polygon = %+v", poly)
	}
}

func TestCanvasEachMutatesAndCloneIsolates(t *testing.T) {
	c := NewCanvas(1)
	c.DrawPolygon([]Vec2{V(0, 0), V(1, 0), V(0, 1)}, Solid(White), NoStroke)
	snapshot := c.Clone()
	c.Each(func(s *Shape) {
		s.Fill.Color = Black
		s.Points[0] = V(-1, -1)
	})
	if c.At(0).Fill.Color != Black {
		t.Fatalf("Each did not mutate")
	}
	if snapshot.At(0).Fill.Color != White || snapshot.At(0).Points[0] != V(0, 0) {
		t.Fatalf("clone was affected by mutation")
	}
}

func TestCanvasBounds(t *testing.T) {
	c := NewCanvas(2)
	c.DrawCircle(V(0, 0), 1, Solid(White), NoStroke)
	c.DrawPolyLine([]Vec2{V(2, 2), V(3, 0)}, Line(Black, 1, EndButt))
	b := c.Bounds()
	if b.Min != V(-1, -1) || b.Max != V(3, 2) {
		t.Fatalf("bounds = %+v", b)
	}
}
