/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"genart/internal/cache"
	applog "genart/internal/log"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestServer(t *testing.T) (*httptest.Server, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore()
	ts := httptest.NewServer(New(cache.New(store, 0), applog.Nop()))
	t.Cleanup(ts.Close)
	return ts, store
}

func postSketch(t *testing.T, ts *httptest.Server, path string, body []byte) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "image/png", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSketchThenFetchImage(t *testing.T) {
	ts, store := newTestServer(t)
	body := testPNG(t, 16, 16)
	resp, out := postSketch(t, ts, "/sketch/halftone?dot_density=4&width=64&height=48", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, out["error"])
	key := out["key"]
	require.Len(t, key, 64)
	require.Equal(t, "/image/"+key, out["image"])

	img, err := http.Get(ts.URL + out["image"])
	require.NoError(t, err)
	defer img.Body.Close()
	require.Equal(t, http.StatusOK, img.StatusCode)
	require.Equal(t, "image/png", img.Header.Get("Content-Type"))
	decoded, err := png.Decode(img.Body)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 48), decoded.Bounds())

	// Same request maps to the same entry.
	_, again := postSketch(t, ts, "/sketch/halftone?width=64&dot_density=4&height=48", body)
	require.Equal(t, key, again["key"])
	require.Equal(t, 1, store.Len())
}

func TestEachImageSketch(t *testing.T) {
	ts, _ := newTestServer(t)
	body := testPNG(t, 16, 16)
	for _, path := range []string{
		"/sketch/preslav?shapes=10&seed=3&width=32&height=32",
		"/sketch/halftone?width=32&height=32",
		"/sketch/waves?skip_rows=1&width=32&height=32",
	} {
		resp, out := postSketch(t, ts, path, body)
		require.Equal(t, http.StatusOK, resp.StatusCode, path+": "+out["error"])
	}
}

func TestSketchErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	body := testPNG(t, 8, 8)
	cases := []struct {
		name   string
		path   string
		body   []byte
		status int
	}{
		{"unknown kind", "/sketch/mosaic", body, http.StatusNotFound},
		{"celestial has no input", "/sketch/celestial", body, http.StatusNotFound},
		{"empty body", "/sketch/halftone", nil, http.StatusBadRequest},
		{"not an image", "/sketch/halftone", []byte("hello"), http.StatusBadRequest},
		{"unknown override", "/sketch/halftone?bogus=1", body, http.StatusBadRequest},
		{"invalid override", "/sketch/waves?skip_rows=-1", body, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := postSketch(t, ts, tc.path, tc.body)
			require.Equal(t, tc.status, resp.StatusCode)
			require.NotEmpty(t, out["error"])
		})
	}
}

func TestImageNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, key := range []string{strings.Repeat("a", 64), "short", strings.Repeat("Z", 64)} {
		resp, err := http.Get(ts.URL + "/image/" + key)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode, key)
	}
}

func TestWrongMethod(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/sketch/halftone")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
