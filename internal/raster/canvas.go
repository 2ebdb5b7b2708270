/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package raster holds a dense float color grid used as sketch input and
// as the product of rasterizing a vector canvas.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"genart/internal/vector"
)

// Canvas is a row-major grid of colors; pixel (x, y) lives at y*Width+x.
type Canvas struct {
	width, height int
	pix           []vector.Color
}

// New returns a transparent canvas. Negative sizes are treated as zero.
func New(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	return &Canvas{width: width, height: height, pix: make([]vector.Color, width*height)}
}

// FromRGBA8 builds a canvas from a packed, non-premultiplied RGBA8 buffer.
func FromRGBA8(width, height int, pix []byte) (*Canvas, error) {
	if width < 0 || height < 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("raster: buffer of %d bytes does not match %dx%d", len(pix), width, height)
	}
	c := New(width, height)
	for i := range c.pix {
		o := i * 4
		c.pix[i] = vector.FromRGBA8(pix[o], pix[o+1], pix[o+2], pix[o+3])
	}
	return c, nil
}

// FromImage converts any image; the result is anchored at (0, 0).
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := New(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < c.height; y++ {
			row := src.Pix[(y)*src.Stride:]
			for x := 0; x < c.width; x++ {
				o := x * 4
				c.pix[y*c.width+x] = vector.FromRGBA8(row[o], row[o+1], row[o+2], row[o+3])
			}
		}
	default:
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				c.pix[y*c.width+x] = vector.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Size returns width and height.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// InBounds reports whether (x, y) addresses a pixel.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *Canvas) index(x, y int) int {
	if !c.InBounds(x, y) {
		panic(fmt.Sprintf("raster: pixel (%d, %d) out of bounds for %dx%d canvas", x, y, c.width, c.height))
	}
	return y*c.width + x
}

// Pixel returns the color at (x, y). It panics when out of bounds.
func (c *Canvas) Pixel(x, y int) vector.Color { return c.pix[c.index(x, y)] }

// SetPixel stores color at (x, y). It panics when out of bounds.
func (c *Canvas) SetPixel(x, y int, col vector.Color) { c.pix[c.index(x, y)] = col }

// Raw exposes the backing slice for read-only bulk access.
func (c *Canvas) Raw() []vector.Color { return c.pix }

// RawMut exposes the backing slice for in-place edits.
func (c *Canvas) RawMut() []vector.Color { return c.pix }

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	return &Canvas{width: c.width, height: c.height, pix: append([]vector.Color(nil), c.pix...)}
}

// RGBA8 packs the canvas into a clamped, non-premultiplied RGBA8 buffer.
func (c *Canvas) RGBA8() []byte {
	out := make([]byte, len(c.pix)*4)
	for i, p := range c.pix {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = p.RGBA8()
	}
	return out
}

// NRGBA returns the canvas as an image.
func (c *Canvas) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: c.RGBA8(), Stride: c.width * 4, Rect: image.Rect(0, 0, c.width, c.height)}
}

// ColorModel, Bounds and At let a Canvas be passed wherever an image.Image is expected.
func (c *Canvas) ColorModel() color.Model { return color.NRGBAModel }
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }
func (c *Canvas) At(x, y int) color.Color {
	if !c.InBounds(x, y) {
		return color.NRGBA{}
	}
	return c.pix[y*c.width+x].NRGBA()
}

// Fill sets every pixel to col.
func (c *Canvas) Fill(col vector.Color) {
	for i := range c.pix {
		c.pix[i] = col
	}
}
