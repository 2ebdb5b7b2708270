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
	"strings"
	"testing"

	"genart/internal/vector"
)

func sampleCanvas() *vector.Canvas {
	c := vector.NewCanvas(4)
	c.DrawPolygon([]vector.Vec2{vector.V(-1, -1), vector.V(1, -1), vector.V(0, 1)},
		vector.Solid(vector.RGB(1, 0, 0)), vector.NoStroke)
	c.DrawPolyLine([]vector.Vec2{vector.V(-0.5, 0), vector.V(0.5, 0.25)},
		vector.Line(vector.Color{R: 0, G: 0, B: 1, A: 0.5}, 0.1, vector.EndRound))
	c.DrawCircle(vector.V(0.25, -0.25), 0.125, vector.Solid(vector.White), vector.Line(vector.Black, 0.02, vector.EndButt))
	c.DrawRegularPolygon(vector.V(0, 0), 4, 0.5, 0, vector.Solid(vector.Color{R: 0, G: 1, B: 0, A: 0.25}), vector.NoStroke)
	return c
}

func TestSVGDeterministic(t *testing.T) {
	opt := SVGOptions{Width: 100, Height: 100, Background: vector.White}
	a, err := Draw(sampleCanvas(), NewSVG(opt))
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	b, err := Draw(sampleCanvas(), NewSVG(opt))
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if a != b {
		t.Fatalf("svg output differs between runs")
	}
}

func TestSVGElements(t *testing.T) {
	out, err := Draw(sampleCanvas(), NewSVG(SVGOptions{Width: 100, Height: 100, Background: vector.White}))
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="100" height="100"`,
		`<rect x="0" y="0" width="100" height="100" fill="#FFFFFF"/>`,
		`<polygon points="0,100 100,100 50,0" fill="#FF0000" stroke="none"/>`,
		`<polyline points="25,50 75,37.5" fill="none" stroke="#0000FF" stroke-opacity="0.5" stroke-width="5" stroke-linecap="round"`,
		`<circle cx="62.5" cy="62.5" r="6.25" fill="#FFFFFF" stroke="#000000" stroke-width="1" stroke-linecap="butt"`,
		`<polygon points="75,50 50,25 25,50 50,75" fill="#00FF00" fill-opacity="0.25" stroke="none"/>`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q\n%s", want, out)
		}
	}
}

func TestSVGIntegersOnly(t *testing.T) {
	c := vector.NewCanvas(1)
	c.DrawCircle(vector.V(0.013, 0.017), 0.011, vector.Solid(vector.Black), vector.NoStroke)
	out, err := Draw(c, NewSVG(SVGOptions{Width: 100, Height: 100, IntegersOnly: true}))
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !strings.Contains(out, `<circle cx="51" cy="49" r="1"`) {
		t.Fatalf("expected rounded coordinates:\n%s", out)
	}
}

func TestFormatNum(t *testing.T) {
	cases := []struct {
		v    float32
		prec int
		want string
	}{
		{1.5, 3, "1.5"},
		{2, 3, "2"},
		{-0.0001, 3, "0"},
		{1e-7, 3, "0"},
		{123456789, 2, "123456792"},
		{0.12345, 3, "0.123"},
	}
	for _, tc := range cases {
		if got := formatNum(tc.v, tc.prec); got != tc.want {
			t.Fatalf("formatNum(%v, %d) = %q, want %q", tc.v, tc.prec, got, tc.want)
		}
	}
}
