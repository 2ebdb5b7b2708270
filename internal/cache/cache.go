/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package cache stores rendered images keyed by a fingerprint of the inputs
// that produced them. Stores are interchangeable: an in-process map, a local
// SQLite file, or a shared Postgres table.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	applog "genart/internal/log"
)

// ErrNotFound is returned by Store.Get for unknown keys.
var ErrNotFound = errors.New("cache: key not found")

// Key returns the hex SHA-256 over parts. Each part is length-prefixed so
// ("ab", "c") and ("a", "bc") fingerprint differently.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store is a blob store with access-time tracking.
type Store interface {
	// Get returns the blob for key and refreshes its access time.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put inserts or replaces the blob for key.
	Put(ctx context.Context, key string, val []byte) error
	// Evict removes entries last accessed before olderThan and reports how many.
	Evict(ctx context.Context, olderThan time.Time) (int, error)
	Close() error
}

// Cache wraps a Store with de-duplicated computation and timed eviction.
type Cache struct {
	Store Store
	// TTL is the idle time after which the janitor evicts an entry. Zero
	// disables eviction.
	TTL time.Duration

	group singleflight.Group
	log   *slog.Logger
}

// New returns a Cache over store.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{Store: store, TTL: ttl, log: applog.WithComponent("cache")}
}

func (c *Cache) logger() *slog.Logger {
	if c.log == nil {
		c.log = applog.WithComponent("cache")
	}
	return c.log
}

// Get forwards to the store.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.Store.Get(ctx, key)
}

// GetOrCompute returns the cached blob for key or runs fn, stores its result
// and returns it. Concurrent callers for the same key share one run of fn.
func (c *Cache) GetOrCompute(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.Store.Get(ctx, key); err == nil {
		return b, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		// A previous flight may have finished between the miss and here.
		if b, err := c.Store.Get(ctx, key); err == nil {
			return b, nil
		}
		start := time.Now()
		b, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Store.Put(ctx, key, b); err != nil {
			return nil, err
		}
		c.logger().Debug("computed", slog.String("key", key), slog.Int("bytes", len(b)), slog.Duration("took", time.Since(start)))
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger().Debug("shared computation", slog.String("key", key))
	}
	return v.([]byte), nil
}

// Sweep evicts entries idle for longer than TTL once.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	if c.TTL <= 0 {
		return 0, nil
	}
	return c.Store.Evict(ctx, time.Now().Add(-c.TTL))
}

// RunJanitor sweeps every interval until ctx is done. Sweep errors are logged
// and the loop keeps going.
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) {
	if c.TTL <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := c.Sweep(ctx)
			if err != nil {
				c.logger().Warn("sweep failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				c.logger().Info("evicted", slog.Int("entries", n))
			}
		}
	}
}

// Close closes the underlying store.
func (c *Cache) Close() error { return c.Store.Close() }
