// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/emberveil/emberveil/internal/xdg"
)

// Config is the server configuration.
type Config struct {
	// Listen is the telnet listen address.
	Listen string `koanf:"listen"`

	// MetricsListen is the observability HTTP listen address. Empty
	// disables the endpoint.
	MetricsListen string `koanf:"metrics_listen"`

	// DatabaseURL is the PostgreSQL connection string. Empty selects the
	// in-memory account store.
	DatabaseURL string `koanf:"database_url"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	// Roles maps role names to the permissions they carry.
	Roles map[string][]string `koanf:"roles"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

func defaults() map[string]any {
	return map[string]any{
		"listen":         ":4201",
		"metrics_listen": "127.0.0.1:9100",
		"database_url":   "",
		"log_format":     "json",
	}
}

// Load reads configuration. The file at path is optional; flags may be
// nil. Flag values override file values, which override defaults.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code("CONFIG_FILE_INVALID").With("path", path).Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return nil, oops.Code("CONFIG_FILE_UNREADABLE").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, oops.Code("CONFIG_INVALID").
			With("log_format", cfg.LogFormat).
			Errorf("log_format must be json or text")
	}

	return &cfg, nil
}
