/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package server exposes the image sketches over HTTP. Rendered PNGs are
// stored in a cache under a fingerprint of the request, so repeating a request
// is free and the image can be fetched later by key.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"genart/internal/cache"
	"genart/internal/export"
	"genart/internal/preset"
	"genart/internal/sketch"
)

// MaxUploadBytes bounds the request body of POST /sketch/{kind}.
const MaxUploadBytes = 32 << 20

var imageKinds = map[preset.Kind]bool{
	preset.Preslav:  true,
	preset.Halftone: true,
	preset.Waves:    true,
}

type server struct {
	cache *cache.Cache
	log   *slog.Logger
}

// New returns the HTTP handler. logger may be nil.
func New(c *cache.Cache, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{cache: c, log: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /sketch/{kind}", s.handleSketch)
	mux.HandleFunc("GET /image/{key}", s.handleImage)
	return s.logRequests(mux)
}

type sketchResponse struct {
	Key   string `json:"key"`
	Image string `json:"image"`
}

func (s *server) handleSketch(w http.ResponseWriter, r *http.Request) {
	kind := preset.Kind(r.PathValue("kind"))
	if !imageKinds[kind] {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown sketch %q", kind))
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("request body must be an image"))
		return
	}
	overrides := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			overrides[k] = v[len(v)-1]
		}
	}
	p, err := preset.WithOverrides(kind, overrides)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	key := cache.Key([]byte(kind), canonical(overrides), body)
	_, err = s.cache.GetOrCompute(r.Context(), key, func(context.Context) ([]byte, error) {
		return render(p, body)
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("sketch failed", slog.String("kind", string(kind)), slog.Any("err", err))
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, sketchResponse{Key: key, Image: "/image/" + key})
}

func render(p *preset.Preset, body []byte) ([]byte, error) {
	img, err := export.DecodeAny(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	sk, err := p.Sketcher(img)
	if err != nil {
		return nil, err
	}
	out, err := sk.Run(nil)
	if err != nil {
		return nil, err
	}
	opt, err := p.Export()
	if err != nil {
		return nil, err
	}
	return export.Bytes(out, export.PNG, opt)
}

func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !validKey(key) {
		writeError(w, http.StatusNotFound, cache.ErrNotFound)
		return
	}
	b, err := s.cache.Get(r.Context(), key)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func validKey(k string) bool {
	if len(k) != 64 {
		return false
	}
	for _, c := range k {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// canonical serializes overrides in key order so equal requests hash equal.
func canonical(m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, m[k])
	}
	return b.Bytes()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, preset.ErrInvalidPreset),
		errors.Is(err, sketch.ErrInvalidConfig),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
