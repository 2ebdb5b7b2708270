/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: a YAML file in the user config
// directory, overridden at runtime by GENART_* environment variables. The
// Postgres cache password is kept in the OS keyring, never in the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	applog "genart/internal/log"
	"genart/internal/render"
	"genart/internal/vector"
)

// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	OutputDir      string `yaml:"output_dir"`
}

// RenderConfig holds the output defaults used when neither a preset nor a
// flag sets them.
type RenderConfig struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Background vector.Color `yaml:"background"`
	Fit        string       `yaml:"fit"`
	Aliased    bool         `yaml:"aliased"`
	Precision  int          `yaml:"precision"`
}

type CacheConfig struct {
	Driver string        `yaml:"driver"` // "memory" | "sqlite" | "postgres"
	Path   string        `yaml:"path"`
	DSN    string        `yaml:"dsn"`
	TTL    time.Duration `yaml:"ttl"`
	// Password is not stored on disk; it lives in the OS keychain.
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Render        RenderConfig  `yaml:"render"`
	Cache         CacheConfig   `yaml:"cache"`
	Server        ServerConfig  `yaml:"server"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, OutputDir: "out"},
		Render:        RenderConfig{Width: 1200, Height: 1200, Background: vector.White, Fit: "min", Precision: 4},
		Cache:         CacheConfig{Driver: "sqlite", Path: defaultCachePath(), TTL: 7 * 24 * time.Hour},
		Server:        ServerConfig{Addr: ":8080"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "genart", "renders.db")
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "GENART_CONFIG"
	EnvTelemetryOptIn = "GENART_TELEMETRY_OPT_IN"
	EnvOutputDir      = "GENART_OUTPUT_DIR"
	EnvRenderWidth    = "GENART_RENDER_WIDTH"
	EnvRenderHeight   = "GENART_RENDER_HEIGHT"
	EnvCacheDriver    = "GENART_CACHE_DRIVER"
	EnvCachePath      = "GENART_CACHE_PATH"
	EnvCacheDSN       = "GENART_CACHE_DSN"
	EnvCacheTTL       = "GENART_CACHE_TTL"
	EnvServerAddr     = "GENART_SERVER_ADDR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GENART_LOG_LEVEL"
	EnvLogFormat = "GENART_LOG_FORMAT"
	EnvLogSource = "GENART_LOG_SOURCE"
	EnvLogFile   = "GENART_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService  = "genart"
	keyringPassword = "cache_password"
)

// SecretStore abstracts the keyring, so we can stub it in tests.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var secretStore SecretStore = osKeyring{}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// ConfigPath returns the per-user config file path. GENART_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "genart")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "genart")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "genart")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "genart")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The cache password is read from the keyring and
// returned separately.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	pw, _ := secretStore.Get(keyringService, keyringPassword)
	return cfg, pw, nil
}

// Save writes the user config YAML and persists the password into the OS
// keyring (if non-empty).
func Save(cfg AppConfig, password string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if password != "" {
		if err := secretStore.Set(keyringService, keyringPassword, password); err != nil {
			return fmt.Errorf("store cache password: %w", err)
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if s := strings.TrimSpace(src.General.OutputDir); s != "" {
		dst.General.OutputDir = s
	}
	// render
	if src.Render.Width > 0 {
		dst.Render.Width = src.Render.Width
	}
	if src.Render.Height > 0 {
		dst.Render.Height = src.Render.Height
	}
	if src.Render.Background != (vector.Color{}) {
		dst.Render.Background = src.Render.Background
	}
	if s := strings.TrimSpace(src.Render.Fit); s != "" {
		dst.Render.Fit = strings.ToLower(s)
	}
	dst.Render.Aliased = src.Render.Aliased
	if src.Render.Precision > 0 {
		dst.Render.Precision = src.Render.Precision
	}
	// cache
	if s := strings.TrimSpace(src.Cache.Driver); s != "" {
		dst.Cache.Driver = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Cache.Path); s != "" {
		dst.Cache.Path = s
	}
	if s := strings.TrimSpace(src.Cache.DSN); s != "" {
		dst.Cache.DSN = s
	}
	if src.Cache.TTL != 0 {
		dst.Cache.TTL = src.Cache.TTL
	}
	if s := strings.TrimSpace(src.Server.Addr); s != "" {
		dst.Server.Addr = s
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.General.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderHeight)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.Height = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDriver)); v != "" {
		cfg.Cache.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCachePath)); v != "" {
		cfg.Cache.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDSN)); v != "" {
		cfg.Cache.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheTTL)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.output_dir":       EnvOutputDir,
	"render.width":             EnvRenderWidth,
	"render.height":            EnvRenderHeight,
	"cache.driver":             EnvCacheDriver,
	"cache.path":               EnvCachePath,
	"cache.dsn":                EnvCacheDSN,
	"cache.ttl":                EnvCacheTTL,
	"server.addr":              EnvServerAddr,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envByKey[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// ParsedFit returns the render fit, falling back to min for unknown values.
func (r RenderConfig) ParsedFit() render.Fit {
	f, err := render.ParseFit(r.Fit)
	if err != nil {
		return render.FitMin
	}
	return f
}

// EffectiveDSN returns the cache DSN with password filled in as the user
// password when the DSN is a URL that carries none.
func (c CacheConfig) EffectiveDSN(password string) string {
	if password == "" || c.DSN == "" {
		return c.DSN
	}
	u, err := url.Parse(c.DSN)
	if err != nil || u.Scheme == "" || u.User == nil {
		return c.DSN
	}
	if _, has := u.User.Password(); has {
		return c.DSN
	}
	u.User = url.UserPassword(u.User.Username(), password)
	return u.String()
}

// Options converts the logging section for log.Init.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}
