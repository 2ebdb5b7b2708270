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
	"image/color"
	"strconv"
	"strings"
)

// Color is a normalized RGBA color, each channel nominally in 0..1.
// Arithmetic may leave the range transiently; conversions to 8-bit clamp.
type Color struct{ R, G, B, A float32 }

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// RGB returns an opaque color.
func RGB(r, g, b float32) Color { return Color{r, g, b, 1} }

func (c Color) Add(o Color) Color { return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A} }
func (c Color) Sub(o Color) Color { return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A} }
func (c Color) Mul(o Color) Color { return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A} }
func (c Color) Div(o Color) Color { return Color{c.R / o.R, c.G / o.G, c.B / o.B, c.A / o.A} }

func (c Color) MulScalar(s float32) Color { return Color{c.R * s, c.G * s, c.B * s, c.A * s} }
func (c Color) DivScalar(s float32) Color { return Color{c.R / s, c.G / s, c.B / s, c.A / s} }

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color { c.A = a; return c }

// Value is the mean of the RGB channels, ignoring alpha.
func (c Color) Value() float32 { return (c.R + c.G + c.B) / 3 }

// Luma is the Rec. 601 weighted brightness.
func (c Color) Luma() float32 { return 0.299*c.R + 0.587*c.G + 0.114*c.B }

// Clamp limits each channel to 0..1.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// to8 maps 0..1 to 0..255. The small bias keeps i/255 mapping back to i.
func to8(v float32) uint8 { return uint8(clamp01(v)*255 + 1e-4) }

// RGBA8 returns the clamped 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

// FromRGBA8 builds a Color from 8-bit channels.
func FromRGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// FromColor converts any image/color value.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return FromRGBA8(n.R, n.G, n.B, n.A)
}

// NRGBA returns the non-premultiplied 8-bit representation.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) { return c.NRGBA().RGBA() }

// Hex formats c as #RRGGBB or, with includeAlpha, #RRGGBBAA.
func (c Color) Hex(includeAlpha bool) string {
	r, g, b, a := c.RGBA8()
	if includeAlpha {
		return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func (c Color) String() string { return c.Hex(true) }

// ParseHex accepts #RGB, #RRGGBB and #RRGGBBAA, with or without the leading #.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "FF"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return FromRGBA8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MarshalText encodes c as #RRGGBBAA so colors read naturally in YAML and JSON.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex(true)), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
