/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package cache

import (
	"context"
	"fmt"
	"strings"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a store.
type Options struct {
	Driver string
	Path   string // sqlite file
	DSN    string // postgres connection string
}

// Open returns the store named by opt.Driver; empty means memory.
func Open(ctx context.Context, opt Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opt.Driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if opt.Path == "" {
			return nil, fmt.Errorf("cache: sqlite driver needs a path")
		}
		return OpenSQLite(ctx, opt.Path)
	case DriverPostgres:
		if opt.DSN == "" {
			return nil, fmt.Errorf("cache: postgres driver needs a dsn")
		}
		return OpenPostgres(ctx, opt.DSN)
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", opt.Driver)
	}
}
