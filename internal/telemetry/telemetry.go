/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous sketch run metrics and crash
// reports. Nothing leaves the machine unless the user opted in and an
// endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	applog "genart/internal/log"
	"genart/internal/version"
)

// Config holds runtime configuration for telemetry and crash uploads.
//
// Environment variables (read by FromEnv):
//   - GENART_TELEMETRY_OPT_IN: "1", "true", "yes" or "on" to enable
//   - GENART_TELEMETRY_URL: endpoint receiving JSON event batches
//   - GENART_CRASH_UPLOAD_URL: endpoint receiving plain-text crash reports
//   - GENART_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
//   - GENART_TELEMETRY_DEBUG: if set, logs send attempts
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

// FromEnv reads Config from GENART_* variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("GENART_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("GENART_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("GENART_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("GENART_TELEMETRY_DEBUG") != "",
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv("GENART_TELEMETRY_TIMEOUT_MS"))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Record is one event as posted. Props must not identify the user or the
// input image.
type Record struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

const (
	queueSize = 64
	maxBatch  = 16
)

// Client queues events and posts them from a background goroutine in small
// batches. A full queue drops events; a sketch run never waits on the network.
type Client struct {
	cfg    Config
	log    *slog.Logger
	http   *http.Client
	queue  chan Record
	wg     sync.WaitGroup
	once   sync.Once
	closed chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		http:   &http.Client{Timeout: cfg.Timeout},
		queue:  make(chan Record, queueSize),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// NewDefault replaces the package-level client with one built from cfg.
func NewDefault(cfg Config) {
	c := New(cfg)
	defaultMu.Lock()
	old := defaultClient
	defaultClient = c
	defaultMu.Unlock()
	if old != nil {
		old.Close()
	}
}

func def() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether the default client will send events.
func Enabled() bool { return def().Enabled() }

// Event queues a named event with props. Safe to call from anywhere.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	rec := Record{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   props,
	}
	c.wg.Add(1)
	select {
	case c.queue <- rec:
	default:
		c.wg.Done()
	}
}

// Event using the default client.
func Event(name string, props map[string]any) { def().Event(name, props) }

// SketchRun records one finished sketch: its kind, how long it took, how many
// shapes it produced and whether it failed.
func (c *Client) SketchRun(kind string, took time.Duration, shapes int, err error) {
	c.Event("sketch_run", map[string]any{
		"sketch": kind,
		"ms":     took.Milliseconds(),
		"shapes": shapes,
		"ok":     err == nil,
	})
}

// SketchRun using the default client.
func SketchRun(kind string, took time.Duration, shapes int, err error) {
	def().SketchRun(kind, took, shapes, err)
}

// Flush waits until every queued event was attempted or ctx ends.
func (c *Client) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Flush using the default client.
func Flush(ctx context.Context) { def().Flush(ctx) }

// Close stops the sender. Queued events that were not sent are dropped.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case rec := <-c.queue:
			batch := []Record{rec}
		drain:
			for len(batch) < maxBatch {
				select {
				case r := <-c.queue:
					batch = append(batch, r)
				default:
					break drain
				}
			}
			c.send(batch)
			for range batch {
				c.wg.Done()
			}
		}
	}
}

func (c *Client) send(batch []Record) {
	buf, err := json.Marshal(batch)
	if err != nil {
		return
	}
	if err := c.post(c.cfg.EventsURL, "application/json", buf); err != nil {
		c.debug("telemetry send failed", slog.Any("err", err))
		return
	}
	c.debug("telemetry events sent", slog.Int("count", len(batch)))
}

func (c *Client) post(url, contentType string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) debug(msg string, attrs ...any) {
	if c.cfg.DebugLogging {
		c.log.Debug(msg, attrs...)
	}
}

// UploadCrash posts a crash report to the crash URL if the user opted in.
// It does not block.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		if err := c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", b); err != nil {
			c.debug("crash upload failed", slog.Any("err", err))
			return
		}
		c.debug("crash report uploaded")
	}(append([]byte(nil), report...))
}

// UploadCrash using the default client.
func UploadCrash(report []byte) { def().UploadCrash(report) }
