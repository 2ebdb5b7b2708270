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
	"testing"

	"genart/internal/vector"
)

func TestRasterFillsCircleOnBackground(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 20, Height: 20, Background: vector.White})
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	c := vector.NewCanvas(1)
	c.DrawCircle(vector.V(0, 0), 0.5, vector.Solid(vector.Black), vector.NoStroke)
	img, err := Draw(c, r)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(img.Pix) != 20*20*4 || img.Stride != 20*4 {
		t.Fatalf("unexpected buffer layout: len=%d stride=%d", len(img.Pix), img.Stride)
	}
	if px := img.NRGBAAt(10, 10); px.R > 10 || px.A != 255 {
		t.Fatalf("center should be black, got %+v", px)
	}
	if px := img.NRGBAAt(0, 0); px.R != 255 || px.A != 255 {
		t.Fatalf("corner should be background white, got %+v", px)
	}
}

func TestRasterYAxisPointsUp(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	c := vector.NewCanvas(1)
	c.DrawPolyLine([]vector.Vec2{vector.V(-1, 0.5), vector.V(1, 0.5)}, vector.Line(vector.RGB(1, 0, 0), 0.2, vector.EndButt))
	img, err := Draw(c, r)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if px := img.NRGBAAt(10, 5); px.R < 200 || px.A < 200 {
		t.Fatalf("line should cross the upper half, got %+v", px)
	}
	if px := img.NRGBAAt(10, 15); px.A != 0 {
		t.Fatalf("lower half should be untouched, got %+v", px)
	}
}

func TestRasterAliasedHasHardEdges(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 32, Height: 32, Aliased: true})
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	c := vector.NewCanvas(2)
	c.DrawRegularPolygon(vector.V(0.1, 0.05), 3, 0.7, 0.3, vector.Solid(vector.RGB(1, 0, 0)), vector.NoStroke)
	c.DrawCircle(vector.V(-0.3, -0.3), 0.33, vector.NoFill, vector.Line(vector.RGB(1, 0, 0), 0.07, vector.EndRound))
	img, err := Draw(c, r)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		switch img.Pix[i] {
		case 0:
		case 255:
			painted++
		default:
			t.Fatalf("partial coverage %d at byte %d", img.Pix[i], i)
		}
	}
	if painted == 0 {
		t.Fatalf("nothing was painted")
	}
}

func TestRasterRejectsEmptySize(t *testing.T) {
	if _, err := NewRaster(RasterOptions{Width: 0, Height: 10}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRasterSkipsDegenerateShapes(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	c := vector.NewCanvas(2)
	c.DrawCircle(vector.V(0, 0), 0, vector.Solid(vector.Black), vector.Line(vector.Black, 0.1, vector.EndRound))
	c.DrawPolygon(nil, vector.Solid(vector.Black), vector.NoStroke)
	img, err := Draw(c, r)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatalf("degenerate shapes should paint nothing")
		}
	}
}
