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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"genart/internal/config"
)

var configKeys = []string{
	"general.telemetry_opt_in", "general.output_dir", "render.width", "render.height",
	"cache.driver", "cache.path", "cache.dsn", "cache.ttl", "server.addr",
	"logging.level", "logging.format", "logging.source", "logging.file",
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if path, err := config.ConfigPath(); err == nil {
				fmt.Fprintf(w, "# file: %s\n", path)
			}
			for _, k := range configKeys {
				if env, ok := config.EnvOverrideFor(k); ok {
					fmt.Fprintf(w, "# %s overridden by %s\n", k, env)
				}
			}
			return writeYAML(w, a.cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-password",
		Short: "Store the postgres cache password in the OS keyring (read from stdin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pw string
			if _, err := fmt.Fscanln(cmd.InOrStdin(), &pw); err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			return config.Save(a.cfg, pw)
		},
	})
	return cmd
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
