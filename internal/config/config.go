// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Configuration file locations (in order of precedence):
//   - ~/.devtinder/config.toml
//   - ~/.devtinder/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete devtinder configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Server  ServerConfig  `toml:"server" json:"server"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// ServerConfig describes how to reach the backend.
type ServerConfig struct {
	// APIURL is the REST base address.
	APIURL string `toml:"api_url" json:"api_url"`
	// SocketURL is the realtime base address. Empty means same as APIURL.
	SocketURL string `toml:"socket_url" json:"socket_url"`
	// TimeoutSecs bounds every REST call.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond paces outgoing REST calls (0 = unlimited).
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the limiter bucket size.
	Burst int `toml:"burst" json:"burst"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// DefaultTheme applies until a theme is picked in the app.
	DefaultTheme string `toml:"default_theme" json:"default_theme"`
	// Mouse enables drag-to-swipe on the feed.
	Mouse bool `toml:"mouse" json:"mouse"`
	// SwipeDistance is the horizontal drag, in cells, that commits a decision.
	SwipeDistance int `toml:"swipe_distance" json:"swipe_distance"`
	// SwipeVelocity is the drag speed, in cells per second, that commits a
	// decision regardless of distance.
	SwipeVelocity float64 `toml:"swipe_velocity" json:"swipe_velocity"`
	// OptimisticSend appends sent chat messages locally instead of waiting
	// for the server echo.
	OptimisticSend bool `toml:"optimistic_send" json:"optimistic_send"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// Path of the log file (empty = ~/.devtinder/devtinder.log).
	Path string `toml:"path" json:"path"`
}

// StorageConfig controls local persistence.
type StorageConfig struct {
	// Path of the state database (empty = ~/.devtinder/state.db).
	Path string `toml:"path" json:"path"`
	// PersistSession keeps the login cookie across restarts, encrypted.
	PersistSession bool `toml:"persist_session" json:"persist_session"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			APIURL:            "http://localhost:7777",
			TimeoutSecs:       15,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		UI: UIConfig{
			DefaultTheme:   string(model.DefaultTheme),
			Mouse:          true,
			SwipeDistance:  12,
			SwipeVelocity:  60,
			OptimisticSend: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			PersistSession: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the devtinder configuration directory path.
// DEVTINDER_HOME overrides the default ~/.devtinder.
func ConfigDir() (string, error) {
	if dir := os.Getenv("DEVTINDER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".devtinder"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// LogPath resolves the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "devtinder.log"), nil
}

// StoragePath resolves the state database location.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// EffectiveSocketURL returns the realtime base address.
func (c *Config) EffectiveSocketURL() string {
	if c.Server.SocketURL != "" {
		return c.Server.SocketURL
	}
	return c.Server.APIURL
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. Environment
// overrides are applied last. When a file exists but cannot be decoded the
// defaults are returned together with the decode error.
func Load() (*Config, error) {
	for _, candidate := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := candidate()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			def := Default()
			def.ApplyEnvOverrides()
			def.SetDefaults()
			return def, err
		}
		return cfg, nil
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config from %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config from %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# devtinder configuration file\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(b.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for field, raw := range map[string]string{"server.api_url": c.Server.APIURL, "server.socket_url": c.Server.SocketURL} {
		if raw == "" && field == "server.socket_url" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", raw)})
		}
	}

	if c.Server.TimeoutSecs <= 0 || c.Server.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{Field: "server.timeout_secs", Message: fmt.Sprintf("must be between 1 and 300, got %d", c.Server.TimeoutSecs)})
	}
	if c.Server.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "server.requests_per_second", Message: "must not be negative"})
	}
	if c.Server.Burst < 0 {
		errs = append(errs, ValidationError{Field: "server.burst", Message: "must not be negative"})
	}

	if c.UI.DefaultTheme != "" {
		if _, ok := model.ParseTheme(c.UI.DefaultTheme); !ok {
			errs = append(errs, ValidationError{Field: "ui.default_theme", Message: fmt.Sprintf("unknown theme '%s'", c.UI.DefaultTheme)})
		}
	}
	if c.UI.SwipeDistance <= 0 {
		errs = append(errs, ValidationError{Field: "ui.swipe_distance", Message: "must be positive"})
	}
	if c.UI.SwipeVelocity <= 0 {
		errs = append(errs, ValidationError{Field: "ui.swipe_velocity", Message: "must be positive"})
	}

	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("invalid level '%s'", c.Logging.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Server.APIURL == "" {
		c.Server.APIURL = def.Server.APIURL
	}
	c.Server.APIURL = strings.TrimRight(c.Server.APIURL, "/")
	c.Server.SocketURL = strings.TrimRight(c.Server.SocketURL, "/")
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.UI.DefaultTheme == "" {
		c.UI.DefaultTheme = def.UI.DefaultTheme
	}
	if c.UI.SwipeDistance == 0 {
		c.UI.SwipeDistance = def.UI.SwipeDistance
	}
	if c.UI.SwipeVelocity == 0 {
		c.UI.SwipeVelocity = def.UI.SwipeVelocity
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// ApplyEnvOverrides applies environment variable overrides:
//   - DEVTINDER_API_URL: overrides server.api_url
//   - DEVTINDER_SOCKET_URL: overrides server.socket_url
//   - DEVTINDER_LOG_LEVEL: overrides logging.level
//   - DEVTINDER_THEME: overrides ui.default_theme
//   - DEVTINDER_NO_MOUSE: disables ui.mouse when set to 1/true
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DEVTINDER_API_URL"); v != "" {
		c.Server.APIURL = v
	}
	if v := os.Getenv("DEVTINDER_SOCKET_URL"); v != "" {
		c.Server.SocketURL = v
	}
	if v := os.Getenv("DEVTINDER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DEVTINDER_THEME"); v != "" {
		c.UI.DefaultTheme = v
	}
	if v := os.Getenv("DEVTINDER_NO_MOUSE"); v == "1" || strings.EqualFold(v, "true") {
		c.UI.Mouse = false
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.mouse").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's kind.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every leaf configuration key in dot notation.
func Keys() []string {
	var keys []string
	var walk func(prefix string, t reflect.Type)
	walk = func(prefix string, t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			if prefix != "" {
				name = prefix + "." + name
			}
			if f.Type.Kind() == reflect.Struct {
				walk(name, f.Type)
				continue
			}
			keys = append(keys, name)
		}
	}
	walk("", reflect.TypeOf(Config{}))
	return keys
}

// Clone returns a copy of the configuration. Config holds no reference
// types so a value copy is deep.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	cfg := globalConfig
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		loaded, _ := Load()
		if loaded == nil {
			loaded = Default()
		}
		globalConfig = loaded
	}
	return globalConfig
}

// ReloadGlobal re-reads the configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if cfg == nil {
		return err
	}
	SetGlobal(cfg)
	return err
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the process-wide configuration.
func ResetGlobalForTesting() {
	SetGlobal(nil)
}
