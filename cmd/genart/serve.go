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
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"genart/internal/cache"
	applog "genart/internal/log"
	"genart/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, driver string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the image sketches over HTTP with a render cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cc := a.cfg.Cache
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if driver != "" {
				cc.Driver = driver
			}
			store, err := cache.Open(ctx, cache.Options{Driver: cc.Driver, Path: cc.Path, DSN: cc.EffectiveDSN(a.password)})
			if err != nil {
				return err
			}
			c := cache.New(store, cc.TTL)
			defer func() { _ = c.Close() }()
			go c.RunJanitor(ctx, janitorInterval(cc.TTL))

			a.log.Info("serving", slog.String("addr", addr), slog.String("cache", cc.Driver))
			return server.ListenAndServe(ctx, addr, server.New(c, applog.WithComponent("server")))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&driver, "cache", "", "cache driver: memory, sqlite or postgres (default from config)")
	return cmd
}

// janitorInterval sweeps ten times per TTL, bounded to [1m, 1h].
func janitorInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/10, time.Minute), time.Hour)
}

