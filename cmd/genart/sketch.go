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
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"genart/internal/export"
	"genart/internal/preset"
	"genart/internal/raster"
	"genart/internal/sketch"
	"genart/internal/telemetry"
)

// sketchFlags are shared by every command that runs a sketch.
type sketchFlags struct {
	preset   string
	sets     []string
	seed     uint64
	out      string
	batch    string
	formats  []string
	quality  int
	progress bool
}

func (f *sketchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.preset, "preset", "p", "", "preset YAML file (default: the builtin preset)")
	fl.StringArrayVar(&f.sets, "set", nil, "override a preset field, key=value (repeatable)")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one from the clock)")
	fl.StringVarP(&f.out, "out", "o", "", "output file; the extension selects the format")
	fl.StringVar(&f.batch, "batch", "", "export preset: web or print (writes several formats)")
	fl.StringSliceVar(&f.formats, "formats", nil, "formats for --batch (default depends on the preset)")
	fl.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100")
	fl.BoolVar(&f.progress, "progress", false, "print progress to stderr")
}

// load resolves the preset for kind: a file if given, else the builtin one,
// with --set and --seed applied on top.
func (f *sketchFlags) load(kind preset.Kind) (*preset.Preset, error) {
	overrides, err := parseSets(f.sets)
	if err != nil {
		return nil, err
	}
	if f.seed != 0 {
		overrides["seed"] = fmt.Sprint(f.seed)
	}
	var p *preset.Preset
	if f.preset != "" {
		p, err = preset.LoadWithOverrides(f.preset, overrides)
	} else {
		p, err = preset.WithOverrides(kind, overrides)
	}
	if err != nil {
		return nil, err
	}
	if p.Sketch != kind {
		return nil, fmt.Errorf("preset %s is for %s, not %s", f.preset, p.Sketch, kind)
	}
	return p, nil
}

func newSketchCmd(a *app, kind, short string, needsImage bool) *cobra.Command {
	f := &sketchFlags{}
	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if needsImage {
				input = args[0]
			}
			return a.runSketch(cmd, preset.Kind(kind), input, f)
		},
	}
	if needsImage {
		cmd.Use = kind + " <image>"
		cmd.Args = cobra.ExactArgs(1)
	}
	f.register(cmd)
	return cmd
}

type seeded interface{ Seed() uint64 }

// build loads the input image (if any) and constructs the sketcher.
func (a *app) build(kind preset.Kind, input string, f *sketchFlags) (*preset.Preset, sketch.Sketcher, error) {
	p, err := f.load(kind)
	if err != nil {
		return nil, nil, err
	}
	a.run.Sketch = string(kind)
	a.run.Preset = f.preset
	var img *raster.Canvas
	if input != "" {
		if img, err = export.LoadImage(input); err != nil {
			return nil, nil, err
		}
	}
	sk, err := p.Sketcher(img)
	if err != nil {
		return nil, nil, err
	}
	if s, ok := sk.(seeded); ok {
		a.run.Seed = s.Seed()
	}
	return p, sk, nil
}

func (a *app) runSketch(cmd *cobra.Command, kind preset.Kind, input string, f *sketchFlags) error {
	p, sk, err := a.build(kind, input, f)
	if err != nil {
		return err
	}
	if a.run.Seed != 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "seed: %d\n", a.run.Seed)
	}
	start := time.Now()
	out, err := sk.Run(progressPrinter(cmd.ErrOrStderr(), string(kind), f.progress))
	took := time.Since(start)
	shapes := 0
	if out != nil && out.IsVector() {
		shapes = out.Vector().Len()
	}
	telemetry.SketchRun(string(kind), took, shapes, err)
	if err != nil {
		return err
	}
	a.log.Info("sketch done", slog.String("sketch", string(kind)), slog.Int("shapes", shapes), slog.Duration("took", took))

	opt, err := p.Export()
	if err != nil {
		return err
	}
	opt.Quality = f.quality
	opt.Title = string(kind)
	paths, err := a.write(out, string(kind), opt, f)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// write saves out either to --out or, with --batch, to one file per format
// under the configured output directory.
func (a *app) write(out *sketch.Output, name string, opt export.Options, f *sketchFlags) ([]string, error) {
	if f.batch != "" {
		bp, err := export.ParsePreset(f.batch)
		if err != nil {
			return nil, err
		}
		var formats []export.Format
		for _, s := range f.formats {
			ff, err := export.ParseFormat(s)
			if err != nil {
				return nil, err
			}
			formats = append(formats, ff)
		}
		dir := a.cfg.General.OutputDir
		if f.out != "" {
			dir = f.out
		}
		return export.BatchExport(out, export.BatchOptions{Preset: bp, Formats: formats, Name: name, OutDir: dir, Options: opt})
	}
	path := f.out
	if path == "" {
		ext := export.PNG.Ext()
		if out.IsVector() {
			ext = export.SVG.Ext()
		}
		path = filepath.Join(a.cfg.General.OutputDir, name+ext)
	}
	if err := export.Save(path, out, opt); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// progressPrinter reports whole-percent steps to w when enabled.
func progressPrinter(w io.Writer, name string, enabled bool) sketch.Progress {
	if !enabled {
		return nil
	}
	last := -1
	return func(fraction float32) {
		pct := int(fraction * 100)
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(w, "\r%s %3d%%", name, pct)
		if pct >= 99 {
			fmt.Fprintln(w)
		}
	}
}

func newPixelateCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pixelate <image>",
		Short: "Convert an image to vector output, one square per pixel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := export.LoadImage(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				base := filepath.Base(args[0])
				out = filepath.Join(a.cfg.General.OutputDir, base[:len(base)-len(filepath.Ext(base))]+export.SVG.Ext())
			}
			r := a.cfg.Render
			w, h := img.Size()
			scale := max(1, r.Width/max(w, h))
			opt := export.Options{
				Width: w * scale, Height: h * scale, Background: r.Background,
				Fit: r.ParsedFit(), Aliased: r.Aliased, Precision: r.Precision,
			}
			if err := export.Save(out, sketch.RasterOutput(img), opt); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <output_dir>/<name>.svg)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "presets [kind]",
		Short:     "List builtin presets or print one as YAML",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"celestial", "preslav", "halftone", "waves"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, k := range preset.Kinds() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}
			data, err := preset.BuiltinYAML(preset.Kind(args[0]))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
