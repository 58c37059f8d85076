// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the ttdata configuration.
type Config struct {
	// Log configures the command logger.
	Log LogConfig `yaml:"log"`

	// Capture configures capture files written by "ttdata build
	// --capture" and read by "ttdata capture".
	Capture CaptureConfig `yaml:"capture"`

	// Decode configures "ttdata decode" and "ttdata match".
	Decode DecodeConfig `yaml:"decode"`

	// Report configures mismatch reports and summaries.
	Report ReportConfig `yaml:"report"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level logged: debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level"`

	// Format selects the handler: text, json, or auto (text when
	// stderr is a terminal, JSON otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

// CaptureConfig configures capture files.
type CaptureConfig struct {
	// Compression is applied to each record: none, lz4 or zstd.
	// Default: zstd
	Compression string `yaml:"compression"`

	// Directory is where relative capture file names are resolved.
	// Default: ${HOME}/.cache/ttdata/captures
	Directory string `yaml:"directory"`
}

// DecodeConfig configures decoding.
type DecodeConfig struct {
	// Type is the registered type name used when --type is not given.
	// Default: IPv6
	Type string `yaml:"type"`
}

// ReportConfig configures rendered output.
type ReportConfig struct {
	// Color is auto, always or never.
	// Default: auto
	Color string `yaml:"color"`

	// Width truncates report lines to this many cells. Zero disables
	// truncation.
	// Default: 0
	Width int `yaml:"width"`
}

// Default returns the configuration used as a base before the config
// file is applied, and as the whole configuration when no file is
// named.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
		Capture: CaptureConfig{
			Compression: "zstd",
			Directory:   filepath.Join(homeDir, ".cache", "ttdata", "captures"),
		},
		Decode: DecodeConfig{
			Type: "IPv6",
		},
		Report: ReportConfig{
			Color: "auto",
		},
	}
}

// Load loads configuration from the file named by TTDATA_CONFIG.
//
// There is no discovery: if TTDATA_CONFIG is not set, Load fails and
// the caller decides whether to continue with [Default].
func Load() (*Config, error) {
	configPath := os.Getenv("TTDATA_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("TTDATA_CONFIG environment variable not set; " +
			"set it to the path of your ttdata.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Values absent from the file
// keep their defaults. ${VAR} and ${VAR:-default} patterns in path
// fields are expanded; no other environment variable overrides a
// config value.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Capture.Directory = expandVars(c.Capture.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if formats := []string{"auto", "text", "json"}; !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if compressions := []string{"none", "lz4", "zstd"}; !slices.Contains(compressions, c.Capture.Compression) {
		errs = append(errs, fmt.Errorf("capture.compression must be one of: %v", compressions))
	}
	if c.Capture.Directory == "" {
		errs = append(errs, errors.New("capture.directory is required"))
	}

	if c.Decode.Type == "" {
		errs = append(errs, errors.New("decode.type is required"))
	}

	if colors := []string{"auto", "always", "never"}; !slices.Contains(colors, c.Report.Color) {
		errs = append(errs, fmt.Errorf("report.color must be one of: %v", colors))
	}
	if c.Report.Width < 0 {
		errs = append(errs, fmt.Errorf("report.width must not be negative, got %d", c.Report.Width))
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: must be debug, info, warn or error", l.Level)
	}
	return level, nil
}

// CapturePath resolves a capture file name. Absolute names and names
// with a directory component are used as given; bare names are placed
// in Capture.Directory.
func (c *Config) CapturePath(name string) string {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(c.Capture.Directory, name)
}

// EnsureCaptureDirectory creates Capture.Directory if it does not
// exist.
func (c *Config) EnsureCaptureDirectory() error {
	if c.Capture.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(c.Capture.Directory, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Capture.Directory, err)
	}
	return nil
}
