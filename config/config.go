// Package config loads the bundler CLI's TOML defaults file.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds settings that would otherwise be repeated on every CLI
// invocation. Flags override these when both are given.
type Config struct {
	EntryPoints       []string `toml:"entry_points"`
	MainModule        string   `toml:"main_module"`
	Namespace         string   `toml:"namespace"`
	RequirePathPrefix string   `toml:"require_path_prefix"`
	Optimize          string   `toml:"optimize"`
	Out               string   `toml:"out"`
	Watch             Watch    `toml:"watch"`
	Metrics           Metrics  `toml:"metrics"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Load reads and decodes a TOML config file, filling in defaults for any
// field the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "$PS"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}

	return &cfg, nil
}
