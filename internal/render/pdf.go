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
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/jung-kurt/gofpdf"

	applog "genart/internal/log"
	"genart/internal/vector"
)

// PDFOptions controls PDF output. The page is Width x Height points and one
// device unit maps to one point.
type PDFOptions struct {
	Width, Height int
	Background    vector.Color
	Fit           Fit
	Title         string
	// Created pins the document creation date; zero leaves gofpdf's default.
	Created time.Time
}

// PDFRenderer paints shapes as PDF vector operators on a single page.
type PDFRenderer struct {
	opt PDFOptions
	vp  Viewport
	pdf *gofpdf.Fpdf
	lc  lifecycle
}

// NewPDF starts a one-page document and paints the background.
func NewPDF(opt PDFOptions) (*PDFRenderer, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("pdf: invalid size %dx%d", opt.Width, opt.Height)
	}
	w, h := float64(opt.Width), float64(opt.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetCreator("genart", false)
	if !opt.Created.IsZero() {
		pdf.SetCreationDate(opt.Created)
	}
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
	pdf.SetLineJoinStyle("round")

	r := &PDFRenderer{opt: opt, vp: Viewport{Width: opt.Width, Height: opt.Height, Fit: opt.Fit}, pdf: pdf}
	if opt.Background.A > 0 {
		r.setFill(opt.Background)
		pdf.Rect(0, 0, w, h, "F")
	}
	return r, nil
}

func (r *PDFRenderer) setFill(c vector.Color) {
	red, g, b, _ := c.RGBA8()
	r.pdf.SetFillColor(int(red), int(g), int(b))
	r.pdf.SetAlpha(float64(c.Clamp().A), "Normal")
}

func (r *PDFRenderer) setStroke(st vector.Stroke) {
	red, g, b, _ := st.Color.RGBA8()
	r.pdf.SetDrawColor(int(red), int(g), int(b))
	r.pdf.SetAlpha(float64(st.Color.Clamp().A), "Normal")
	r.pdf.SetLineWidth(float64(r.vp.Length(st.Width)))
	if st.End == vector.EndRound {
		r.pdf.SetLineCapStyle("round")
	} else {
		r.pdf.SetLineCapStyle("butt")
	}
}

// Render paints s. Fill and stroke are separate operations so they can carry
// different opacities.
func (r *PDFRenderer) Render(s vector.Shape) error {
	if err := r.lc.begin(); err != nil {
		return err
	}
	if s.Fillable() {
		r.setFill(s.Fill.Color)
		r.outline(s, "F")
	}
	if s.Stroke.Visible() {
		r.setStroke(s.Stroke)
		r.outline(s, "D")
	}
	return r.pdf.Error()
}

func (r *PDFRenderer) outline(s vector.Shape, style string) {
	switch s.Kind {
	case vector.Circle:
		c := r.vp.ToDevice(s.Center)
		r.pdf.Circle(float64(c.X), float64(c.Y), float64(r.vp.Length(s.Radius)), style)
	case vector.PolyLine:
		if len(s.Points) < 2 {
			return
		}
		p0 := r.vp.ToDevice(s.Points[0])
		r.pdf.MoveTo(float64(p0.X), float64(p0.Y))
		for _, p := range s.Points[1:] {
			d := r.vp.ToDevice(p)
			r.pdf.LineTo(float64(d.X), float64(d.Y))
		}
		r.pdf.DrawPath(style)
	default:
		pts := s.Vertices()
		out := make([]gofpdf.PointType, len(pts))
		for i, p := range pts {
			d := r.vp.ToDevice(p)
			out[i] = gofpdf.PointType{X: float64(d.X), Y: float64(d.Y)}
		}
		r.pdf.Polygon(out, style)
	}
}

// Finalize serializes the document.
func (r *PDFRenderer) Finalize() ([]byte, error) {
	if err := r.lc.finish(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	applog.WithComponent("render").Debug("pdf finalized", slog.Int("shapes", r.lc.shapes), slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
