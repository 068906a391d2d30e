// Package config loads tracevar configuration from a TOML file, with
// defaults that work against a local analysis service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tracevar/tracevar/pkg/layout"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "TRACEVAR_CONFIG"

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Backend BackendConfig `toml:"backend"`
	Cache   CacheConfig   `toml:"cache"`
	Layout  LayoutConfig  `toml:"layout"`
}

// ServerConfig configures the HTTP server started by `tracevar serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// BackendConfig points at the external analysis service.
type BackendConfig struct {
	LineageURL  string `toml:"lineage_url"`
	ClassifyURL string `toml:"classify_url"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means ~/.cache/tracevar.
	Dir string `toml:"dir"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// LayoutConfig overrides the layout geometry. Zero values fall back to the
// layout package defaults.
type LayoutConfig struct {
	NodeWidth        float64 `toml:"node_width"`
	NodeHeight       float64 `toml:"node_height"`
	RankGap          float64 `toml:"rank_gap"`
	NodeGap          float64 `toml:"node_gap"`
	CompactThreshold int     `toml:"compact_threshold"`
	CompactScale     float64 `toml:"compact_scale"`
	Sweeps           int     `toml:"sweeps"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Backend: BackendConfig{
			LineageURL:  "http://localhost:8000",
			ClassifyURL: "http://localhost:8000",
		},
		Cache: CacheConfig{
			Backend: "file",
		},
	}
}

// Load reads the configuration. The path is resolved in order: the explicit
// argument, the TRACEVAR_CONFIG environment variable, then
// ~/.config/tracevar/config.toml. A missing file is not an error; defaults
// apply, and file values override defaults field by field.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".config", "tracevar", "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LayoutOptions converts the config overrides into layout options, filling
// unset fields with the package defaults.
func (c LayoutConfig) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c.NodeWidth > 0 {
		opts.NodeWidth = c.NodeWidth
	}
	if c.NodeHeight > 0 {
		opts.NodeHeight = c.NodeHeight
	}
	if c.RankGap > 0 {
		opts.RankGap = c.RankGap
	}
	if c.NodeGap > 0 {
		opts.NodeGap = c.NodeGap
	}
	if c.CompactThreshold > 0 {
		opts.CompactThreshold = c.CompactThreshold
	}
	if c.CompactScale > 0 {
		opts.CompactScale = c.CompactScale
	}
	if c.Sweeps > 0 {
		opts.Sweeps = c.Sweeps
	}
	return opts
}
