// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package gradual

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls the checker. The zero Config is not valid; start from DefaultConfig.
type Config struct {
	// WarnUnreachable reports statements which are unreachable on every path.
	WarnUnreachable bool `yaml:"warn_unreachable"`
	// CheckUntypedDefs checks the bodies of functions without annotations.
	CheckUntypedDefs bool `yaml:"check_untyped_defs"`
	// ExpandValueRestrictions checks generic function bodies once per value of each value-restricted
	// type variable.
	ExpandValueRestrictions bool `yaml:"expand_value_restrictions"`
	// MaxLoopPasses bounds the number of passes over a loop body before its entry state is fixed.
	MaxLoopPasses int `yaml:"max_loop_passes"`
	// ShowColumnNumbers includes columns in formatted diagnostics.
	ShowColumnNumbers bool `yaml:"show_column_numbers"`
	// ShowErrorCodes appends the error code to formatted diagnostics.
	ShowErrorCodes bool `yaml:"show_error_codes"`
	// LogLevel is one of "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		WarnUnreachable:         true,
		CheckUntypedDefs:        true,
		ExpandValueRestrictions: true,
		MaxLoopPasses:           4,
		ShowColumnNumbers:       true,
		LogLevel:                "warn",
	}
}

// ConfigError is returned for an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// ParseConfig decodes a YAML configuration. Fields which are not set keep their default values, and
// unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.MaxLoopPasses < 1 {
		return &ConfigError{Field: "max_loop_passes", Reason: "must be at least 1"}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ConfigError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "", "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelWarn, false
}
