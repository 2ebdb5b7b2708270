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

// Styles and paint definitions.

// LineEnd is how open stroke ends are drawn.
type LineEnd uint8

const (
	EndButt LineEnd = iota
	EndRound
)

func (e LineEnd) String() string {
	if e == EndRound {
		return "round"
	}
	return "butt"
}

// Fill paints the interior of closed shapes.
type Fill struct {
	Color   Color
	Enabled bool
}

// Stroke paints the outline. Width is in camera units.
type Stroke struct {
	Color   Color
	Width   float32
	End     LineEnd
	Enabled bool
}

// NoFill and NoStroke disable painting.
var (
	NoFill   = Fill{}
	NoStroke = Stroke{}
)

// Solid returns an enabled fill.
func Solid(c Color) Fill { return Fill{Color: c, Enabled: true} }

// Line returns an enabled stroke; negative widths clamp to zero.
func Line(c Color, width float32, end LineEnd) Stroke {
	return Stroke{Color: c, Width: max(width, 0), End: end, Enabled: true}
}

// Visible reports whether the stroke would paint anything.
func (s Stroke) Visible() bool { return s.Enabled && s.Width > 0 && s.Color.A > 0 }

// Visible reports whether the fill would paint anything.
func (f Fill) Visible() bool { return f.Enabled && f.Color.A > 0 }
