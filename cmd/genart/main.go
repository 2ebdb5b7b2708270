/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Command genart runs the generative sketches from the command line, serves
// them over HTTP and previews them in a window.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"genart/internal/config"
	"genart/internal/crash"
	applog "genart/internal/log"
	"genart/internal/telemetry"
	"genart/internal/version"
)

// app carries state shared by every subcommand.
type app struct {
	cfg      config.AppConfig
	password string
	log      *slog.Logger
	run      *crash.RunInfo
}

func main() {
	a := &app{run: &crash.RunInfo{Args: os.Args[1:]}}
	defer crash.Recover(a.run)
	err := newRootCmd(a).Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	telemetry.Flush(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "genart",
		Short:         "Generative art sketches: celestial, preslav, halftone, waves",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Name())
		},
	}
	root.AddCommand(
		newSketchCmd(a, "celestial", "Simulate orbiting bodies and draw their paths", false),
		newSketchCmd(a, "preslav", "Repaint an image with shrinking translucent polygons", true),
		newSketchCmd(a, "halftone", "Render an image as a rotated grid of dots", true),
		newSketchCmd(a, "waves", "Trace an image as brightness-modulated sine waves", true),
		newPixelateCmd(a),
		newServeCmd(a),
		newPreviewCmd(a),
		newPresetsCmd(),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the user config and configures logging and telemetry from it.
func (a *app) setup(command string) error {
	cfg, pw, err := config.Load()
	if err != nil {
		// keep going on defaults; a broken config file should not block rendering
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	a.cfg, a.password = cfg, pw
	applog.Init(cfg.Logging.Options())
	a.log = applog.WithComponent("cli")
	tc := telemetry.FromEnv()
	tc.OptIn = tc.OptIn || cfg.General.TelemetryOptIn
	telemetry.NewDefault(tc)
	a.run.Command = command
	a.run.Dir = cfg.General.OutputDir
	a.log.Debug("start", slog.String("command", command))
	return nil
}

// parseSets turns repeated key=value flags into an override map.
func parseSets(sets []string) (map[string]string, error) {
	out := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", s)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "genart", version.String())
		},
	}
}
