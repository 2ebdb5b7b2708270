/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genart/internal/preset"
	"genart/internal/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	f := &sketchFlags{}
	var perFrame int
	cmd := &cobra.Command{
		Use:   "preview <kind> [image]",
		Short: "Run a sketch and watch it being drawn (needs a -tags fyne build)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := preset.Kind(args[0])
			input := ""
			if len(args) > 1 {
				input = args[1]
			}
			if kind != preset.Celestial && input == "" {
				return fmt.Errorf("%s needs an input image", kind)
			}
			p, sk, err := a.build(kind, input, f)
			if err != nil {
				return err
			}
			out, err := sk.Run(progressPrinter(cmd.ErrOrStderr(), string(kind), f.progress))
			if err != nil {
				return err
			}
			opt, err := p.Export()
			if err != nil {
				return err
			}
			// The window is sized from the config; the preset size is usually print-scale.
			return preview.Run("genart "+string(kind), out.Vector(), preview.Options{
				Width:          a.cfg.Render.Width,
				Height:         a.cfg.Render.Width * opt.Height / max(opt.Width, 1),
				Background:     opt.Background,
				Fit:            opt.Fit,
				ShapesPerFrame: perFrame,
			})
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&perFrame, "per-frame", 0, "shapes drawn per frame (default: a tenth of the sketch)")
	return cmd
}
