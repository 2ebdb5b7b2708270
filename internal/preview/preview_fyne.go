//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package preview

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	applog "genart/internal/log"
	"genart/internal/vector"
)

const frameInterval = 16 * time.Millisecond

// Run opens a window titled title and draws c into it incrementally. It
// blocks until the window is closed.
func Run(title string, c *vector.Canvas, opt Options) error {
	l := applog.WithComponent("preview")
	p, err := NewPlayer(c, opt)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()
	opt = opt.withDefaults(c.Len())

	a := app.NewWithID("genart.preview")
	w := a.NewWindow(title)
	img := canvas.NewImageFromImage(p.Image())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(opt.Width), float32(opt.Height)))
	bar := widget.NewProgressBar()
	w.SetContent(container.NewBorder(nil, bar, nil, nil, img))
	w.Resize(fyne.NewSize(float32(opt.Width), float32(opt.Height)+bar.MinSize().Height))

	stop := make(chan struct{})
	w.SetOnClosed(func() { close(stop) })
	go func() {
		t := time.NewTicker(frameInterval)
		defer t.Stop()
		start := time.Now()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
			}
			done, err := p.Step()
			frame := p.Image()
			progress := float64(p.Progress())
			fyne.Do(func() {
				img.Image = frame
				img.Refresh()
				bar.SetValue(progress)
			})
			if err != nil {
				l.Error("preview render failed", slog.Any("err", err))
				return
			}
			if done {
				l.Info("preview complete", slog.Int("shapes", c.Len()), slog.Duration("took", time.Since(start)))
				return
			}
		}
	}()
	w.ShowAndRun()
	return nil
}
