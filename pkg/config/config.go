// Package config loads user defaults from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/fourcolor/config.toml (falling back to
// ~/.config/fourcolor/config.toml) unless --config names another path:
//
//	width_mm   = 150
//	level      = 2
//	colors     = ["black", "red"]
//	output_dir = "plates"
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	ttl        = "72h"
//
// Command-line flags override every value read here.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultTTL is how long cached previews live.
const DefaultTTL = 7 * 24 * time.Hour

// Config holds user defaults.
type Config struct {
	WidthMM   float64     `toml:"width_mm"`
	Level     int         `toml:"level"`
	Colors    []string    `toml:"colors"`
	OutputDir string      `toml:"output_dir"`
	Workers   int         `toml:"workers"`
	Cache     CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the preview cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		WidthMM:   raster.DefaultWidthMM,
		Level:     raster.MinLevel,
		OutputDir: ".",
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     DefaultTTL.String(),
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fourcolor", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fourcolor", "config.toml"), nil
}

// Load reads path over the defaults. With optional set, a missing file
// yields the defaults; otherwise it is an IO_FAILURE.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if optional {
			return Default(), nil
		}
		return cfg, ferrors.Wrap(ferrors.ErrCodeIO, err, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := raster.ValidateWidth(c.WidthMM); err != nil {
		return err
	}
	if err := raster.ValidateLevel(c.Level); err != nil {
		return err
	}
	if _, err := palette.ParseSelection(c.Colors); err != nil {
		return err
	}
	if c.Workers < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "workers must not be negative")
	}
	return c.Cache.Validate()
}

// Validate checks the backend and TTL.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.RedisAddr == "" {
			return ferrors.New(ferrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Backend)
	}
	if _, err := c.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses TTL. An empty TTL means DefaultTTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.TTL)
	}
	return d, nil
}

// Selection returns the configured colours as a palette selection.
func (c Config) Selection() (palette.Selection, error) {
	return palette.ParseSelection(c.Colors)
}
