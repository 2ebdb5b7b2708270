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
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool { return math32.Abs(a-b) < 1e-5 }

func TestRectContainsAndInset(t *testing.T) {
	r := Rect{Min: V(10, 20), Max: V(110, 70)}
	if !r.Contains(V(10, 20)) || !r.Contains(V(110, 70)) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5)
	if in.Min != V(15, 25) || in.W() != 90 || in.H() != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestRectUnionWithEmpty(t *testing.T) {
	r := Rect{Min: V(-1, -1), Max: V(1, 1)}
	if got := EmptyRect.Union(r); got != r {
		t.Fatalf("empty union = %+v", got)
	}
	if !EmptyRect.Empty() {
		t.Fatalf("EmptyRect should be empty")
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(V(1, 1))
	if p.X != 12 || p.Y != 8 {
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestScaleAbout(t *testing.T) {
	m := ScaleAbout(V(1, 1), 2)
	if p := m.Apply(V(1, 1)); p != V(1, 1) {
		t.Fatalf("center moved: %+v", p)
	}
	if p := m.Apply(V(2, 1)); !near(p.X, 3) || !near(p.Y, 1) {
		t.Fatalf("unexpected point: %+v", p)
	}
	if f := m.ScaleFactor(); !near(f, 2) {
		t.Fatalf("scale factor = %v", f)
	}
}

func TestVec2Ops(t *testing.T) {
	a, b := V(3, 4), V(1, 2)
	if a.Length() != 5 {
		t.Fatalf("length = %v", a.Length())
	}
	if a.Sub(b) != V(2, 2) || a.Add(b) != V(4, 6) || a.Dot(b) != 11 {
		t.Fatalf("arithmetic mismatch")
	}
	r := V(1, 0).Rotate(math32.Pi / 2)
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Fatalf("rotate = %+v", r)
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(1.23456, 2); !near(got, 1.23) {
		t.Fatalf("FloatRound = %v", got)
	}
	if got := FloatRound(1.5, -1); got != 1.5 {
		t.Fatalf("negative places should be a no-op, got %v", got)
	}
}
