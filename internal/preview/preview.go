/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package preview shows a sketch while it is being drawn. The drawing core is
// a Player that feeds shapes in batches to a live renderer on an in-memory gg
// surface; the window around it is only compiled with the fyne build tag.
package preview

import (
	"errors"
	"image"

	"genart/internal/render"
	"genart/internal/vector"
)

// Options controls the preview window and pacing.
type Options struct {
	Width, Height int
	Background    vector.Color
	Fit           render.Fit
	// ShapesPerFrame is how many shapes are drawn between window refreshes.
	// Zero means a tenth of the canvas, at least one.
	ShapesPerFrame int
}

func (o Options) withDefaults(total int) Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.ShapesPerFrame <= 0 {
		o.ShapesPerFrame = max(total/10, 1)
	}
	return o
}

// Player replays a canvas onto a gg surface a batch at a time.
type Player struct {
	canvas *vector.Canvas
	surf   *render.GGSurface
	live   *render.LiveRenderer
	batch  int
	next   int
	done   bool
}

// NewPlayer prepares a surface of opt's size painted with the background.
func NewPlayer(canvas *vector.Canvas, opt Options) (*Player, error) {
	if canvas == nil {
		return nil, errors.New("preview: nil canvas")
	}
	opt = opt.withDefaults(canvas.Len())
	surf := render.NewGGSurface(opt.Width, opt.Height)
	live, err := render.NewLive(surf, render.LiveOptions{Background: opt.Background, Fit: opt.Fit})
	if err != nil {
		_ = surf.Close()
		return nil, err
	}
	return &Player{canvas: canvas, surf: surf, live: live, batch: opt.ShapesPerFrame}, nil
}

// Step draws the next batch and reports whether every shape has been drawn.
// The renderer is finalized with the last batch.
func (p *Player) Step() (bool, error) {
	if p.done {
		return true, nil
	}
	end := min(p.next+p.batch, p.canvas.Len())
	for ; p.next < end; p.next++ {
		if err := p.live.Render(p.canvas.At(p.next)); err != nil {
			return false, err
		}
	}
	if p.next < p.canvas.Len() {
		return false, nil
	}
	p.done = true
	_, err := p.live.Finalize()
	return true, err
}

// Progress reports the fraction of shapes drawn.
func (p *Player) Progress() float32 {
	if p.canvas.Len() == 0 {
		return 1
	}
	return float32(p.next) / float32(p.canvas.Len())
}

// Image returns the surface contents.
func (p *Player) Image() image.Image { return p.surf.Image() }

// Close releases the surface.
func (p *Player) Close() error { return p.surf.Close() }
