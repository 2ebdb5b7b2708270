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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	applog "genart/internal/log"
	"genart/internal/vector"
)

// RasterOptions controls software rasterization.
// Aliased disables anti-aliasing: coverage is thresholded at 50%.
type RasterOptions struct {
	Width, Height int
	Background    vector.Color
	Fit           Fit
	Aliased       bool
}

// RasterRenderer fills and strokes shapes with rasterx onto an RGBA image.
// Finalize returns a non-premultiplied image whose Pix is the packed RGBA8
// buffer, rows top to bottom.
type RasterRenderer struct {
	opt     RasterOptions
	vp      Viewport
	img     *image.RGBA
	mask    *image.Alpha
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher
	lc      lifecycle
}

// NewRaster allocates the target and paints the background.
func NewRaster(opt RasterOptions) (*RasterRenderer, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", opt.Width, opt.Height)
	}
	bounds := image.Rect(0, 0, opt.Width, opt.Height)
	r := &RasterRenderer{
		opt: opt,
		vp:  Viewport{Width: opt.Width, Height: opt.Height, Fit: opt.Fit},
		img: image.NewRGBA(bounds),
	}
	if opt.Background.A > 0 {
		draw.Draw(r.img, bounds, image.NewUniform(opt.Background.NRGBA()), image.Point{}, draw.Over)
	}
	var dst draw.Image = r.img
	if opt.Aliased {
		r.mask = image.NewAlpha(bounds)
		dst = r.mask
	}
	r.scanner = rasterx.NewScannerGV(opt.Width, opt.Height, dst, bounds)
	r.filler = rasterx.NewFiller(opt.Width, opt.Height, r.scanner)
	r.dasher = rasterx.NewDasher(opt.Width, opt.Height, r.scanner)
	return r, nil
}

var capFor = [...]rasterx.CapFunc{
	vector.EndButt:  rasterx.ButtCap,
	vector.EndRound: rasterx.RoundCap,
}

// Render fills then strokes s.
func (r *RasterRenderer) Render(s vector.Shape) error {
	if err := r.lc.begin(); err != nil {
		return err
	}
	if s.Fillable() {
		r.filler.Clear()
		if r.path(r.filler, s) {
			r.paint(s, s.Fill.Color, 0, r.filler.Draw)
		}
	}
	if s.Stroke.Visible() {
		w := r.vp.Length(s.Stroke.Width)
		r.dasher.Clear()
		capFn := capFor[s.Stroke.End]
		r.dasher.SetStroke(fixed.Int26_6(w*64), 4*64, capFn, capFn, rasterx.RoundGap, rasterx.Round, nil, 0)
		if r.path(r.dasher, s) {
			r.paint(s, s.Stroke.Color, w, r.dasher.Draw)
		}
	}
	return nil
}

// path adds the outline of s to a; it reports false for shapes with nothing to draw.
func (r *RasterRenderer) path(a rasterx.Adder, s vector.Shape) bool {
	if s.Kind == vector.Circle {
		if s.Radius <= 0 {
			return false
		}
		c := r.vp.ToDevice(s.Center)
		rasterx.AddCircle(float64(c.X), float64(c.Y), float64(r.vp.Length(s.Radius)), a)
		return true
	}
	pts := s.Vertices()
	if len(pts) < 2 {
		return false
	}
	a.Start(r.fix(pts[0]))
	for _, p := range pts[1:] {
		a.Line(r.fix(p))
	}
	a.Stop(s.Closed())
	return true
}

func (r *RasterRenderer) fix(p vector.Vec2) fixed.Point26_6 {
	d := r.vp.ToDevice(p)
	return fixed.Point26_6{X: fixed.Int26_6(d.X * 64), Y: fixed.Int26_6(d.Y * 64)}
}

// paint runs draw with col. In aliased mode coverage goes to the mask first,
// is thresholded, and then composited over the image.
func (r *RasterRenderer) paint(s vector.Shape, col vector.Color, strokeWidth float32, drawFn func()) {
	if r.mask == nil {
		r.scanner.SetColor(col.NRGBA())
		drawFn()
		return
	}
	area := r.deviceBounds(s, strokeWidth)
	if area.Empty() {
		return
	}
	draw.Draw(r.mask, area, image.Transparent, image.Point{}, draw.Src)
	r.scanner.SetColor(color.Alpha{A: 0xff})
	drawFn()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := r.mask.Pix[y*r.mask.Stride:]
		for x := area.Min.X; x < area.Max.X; x++ {
			if row[x] >= 0x80 {
				row[x] = 0xff
			} else {
				row[x] = 0
			}
		}
	}
	draw.DrawMask(r.img, area, image.NewUniform(col.NRGBA()), image.Point{}, r.mask, area.Min, draw.Over)
}

func (r *RasterRenderer) deviceBounds(s vector.Shape, strokeWidth float32) image.Rectangle {
	b := s.Bounds()
	lo, hi := r.vp.ToDevice(b.Min), r.vp.ToDevice(b.Max)
	pad := strokeWidth/2 + 2
	rect := image.Rect(
		int(math32.Floor(min(lo.X, hi.X)-pad)), int(math32.Floor(min(lo.Y, hi.Y)-pad)),
		int(math32.Ceil(max(lo.X, hi.X)+pad)), int(math32.Ceil(max(lo.Y, hi.Y)+pad)),
	)
	return rect.Intersect(r.img.Bounds())
}

// Finalize converts the premultiplied target into the packed RGBA8 image.
func (r *RasterRenderer) Finalize() (*image.NRGBA, error) {
	if err := r.lc.finish(); err != nil {
		return nil, err
	}
	out := image.NewNRGBA(r.img.Bounds())
	draw.Draw(out, out.Bounds(), r.img, image.Point{}, draw.Src)
	applog.WithComponent("render").Debug("raster finalized",
		slog.Int("shapes", r.lc.shapes), slog.Int("width", r.opt.Width), slog.Int("height", r.opt.Height), slog.Bool("aliased", r.opt.Aliased))
	return out, nil
}
