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
	"log/slog"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	applog "genart/internal/log"
	"genart/internal/vector"
)

// DefaultSVGPrecision is the number of decimals kept for coordinates.
const DefaultSVGPrecision = 3

// SVGOptions controls SVG output.
//   - Background is painted as a full-size rect when its alpha is non-zero.
//   - IntegersOnly rounds every coordinate and length to whole device units.
//   - Precision is the number of decimals otherwise kept; 0 means DefaultSVGPrecision.
type SVGOptions struct {
	Width, Height int
	Background    vector.Color
	Fit           Fit
	IntegersOnly  bool
	Precision     int
}

// SVGRenderer emits one SVG element per shape. Output is deterministic for a
// given canvas and options.
type SVGRenderer struct {
	opt  SVGOptions
	vp   Viewport
	buf  strings.Builder
	werr error
	lc   lifecycle
}

// NewSVG writes the document header and optional background.
func NewSVG(opt SVGOptions) *SVGRenderer {
	if opt.Precision <= 0 {
		opt.Precision = DefaultSVGPrecision
	}
	r := &SVGRenderer{opt: opt, vp: Viewport{Width: opt.Width, Height: opt.Height, Fit: opt.Fit}}
	r.wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		opt.Width, opt.Height, opt.Width, opt.Height)
	if opt.Background.A > 0 {
		r.wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\"%s/>\n", opt.Width, opt.Height, r.paint("fill", opt.Background))
	}
	return r
}

func (r *SVGRenderer) wf(format string, args ...any) {
	if r.werr != nil {
		return
	}
	_, r.werr = fmt.Fprintf(&r.buf, format, args...)
}

// Render appends the element for s.
func (r *SVGRenderer) Render(s vector.Shape) error {
	if err := r.lc.begin(); err != nil {
		return err
	}
	switch s.Kind {
	case vector.Polygon, vector.RegularPolygon:
		r.wf("  <polygon points=\"%s\"%s%s/>\n", r.points(s.Vertices()), r.fill(s), r.stroke(s.Stroke))
	case vector.PolyLine:
		r.wf("  <polyline points=\"%s\" fill=\"none\"%s/>\n", r.points(s.Points), r.stroke(s.Stroke))
	case vector.Circle:
		c := r.vp.ToDevice(s.Center)
		r.wf("  <circle cx=\"%s\" cy=\"%s\" r=\"%s\"%s%s/>\n",
			r.num(c.X), r.num(c.Y), r.num(r.vp.Length(s.Radius)), r.fill(s), r.stroke(s.Stroke))
	default:
		return fmt.Errorf("svg: unsupported shape kind %s", s.Kind)
	}
	return r.werr
}

// Finalize closes the document and returns it.
func (r *SVGRenderer) Finalize() (string, error) {
	if err := r.lc.finish(); err != nil {
		return "", err
	}
	r.wf("</svg>\n")
	if r.werr != nil {
		return "", fmt.Errorf("build svg: %w", r.werr)
	}
	applog.WithComponent("render").Debug("svg finalized", slog.Int("shapes", r.lc.shapes), slog.Int("bytes", r.buf.Len()))
	return r.buf.String(), nil
}

func (r *SVGRenderer) points(pts []vector.Vec2) string {
	var b strings.Builder
	for i, p := range pts {
		d := r.vp.ToDevice(p)
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.num(d.X))
		b.WriteByte(',')
		b.WriteString(r.num(d.Y))
	}
	return b.String()
}

func (r *SVGRenderer) fill(s vector.Shape) string {
	if !s.Fillable() {
		return " fill=\"none\""
	}
	return r.paint("fill", s.Fill.Color)
}

func (r *SVGRenderer) stroke(st vector.Stroke) string {
	if !st.Visible() {
		return " stroke=\"none\""
	}
	return fmt.Sprintf("%s stroke-width=\"%s\" stroke-linecap=\"%s\" stroke-linejoin=\"round\"",
		r.paint("stroke", st.Color), r.num(r.vp.Length(st.Width)), st.End)
}

// paint renders a color attribute plus an opacity attribute for translucent colors.
func (r *SVGRenderer) paint(attr string, c vector.Color) string {
	c = c.Clamp()
	if c.A >= 1 {
		return fmt.Sprintf(" %s=\"%s\"", attr, c.Hex(false))
	}
	return fmt.Sprintf(" %s=\"%s\" %s-opacity=\"%s\"", attr, c.Hex(false), attr, formatNum(c.A, 3))
}

func (r *SVGRenderer) num(v float32) string {
	if r.opt.IntegersOnly {
		return formatNum(math32.Round(v), 0)
	}
	return formatNum(v, r.opt.Precision)
}

// formatNum prints v in fixed notation with at most prec decimals and no
// trailing zeros.
func formatNum(v float32, prec int) string {
	s := strconv.FormatFloat(float64(v), 'f', prec, 32)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
