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
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// sqlStore implements Store over a renders table. SQLite and Postgres differ
// only in placeholder syntax and blob column type.
type sqlStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func (s *sqlStore) bind(q string) string {
	if s.dialect != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) migrate(ctx context.Context) error {
	blob := "BLOB"
	if s.dialect == "postgres" {
		blob = "BYTEA"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			cache_key    TEXT PRIMARY KEY,
			blob         ` + blob + ` NOT NULL,
			size         BIGINT NOT NULL DEFAULT 0,
			created_at   BIGINT NOT NULL,
			last_access  BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renders_access ON renders(last_access)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate renders: %w", err)
		}
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, s.bind(`SELECT blob FROM renders WHERE cache_key=?`), key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query render: %w", err)
	}
	// touch
	_, _ = s.db.ExecContext(ctx, s.bind(`UPDATE renders SET last_access=? WHERE cache_key=?`), s.now().UnixNano(), key)
	return blob, nil
}

func (s *sqlStore) Put(ctx context.Context, key string, val []byte) error {
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx, s.bind(`INSERT INTO renders(cache_key,blob,size,created_at,last_access)
		VALUES(?,?,?,?,?)
		ON CONFLICT(cache_key) DO UPDATE SET blob=excluded.blob, size=excluded.size, last_access=excluded.last_access`),
		key, val, len(val), now, now)
	if err != nil {
		return fmt.Errorf("upsert render: %w", err)
	}
	return nil
}

func (s *sqlStore) Evict(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, s.bind(`DELETE FROM renders WHERE last_access < ?`), olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("evict renders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// TotalBytes sums the stored blob sizes.
func (s *sqlStore) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM renders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum renders size: %w", err)
	}
	return total, nil
}

func (s *sqlStore) Close() error { return s.db.Close() }
