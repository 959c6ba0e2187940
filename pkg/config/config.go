// Package config loads topoview settings from
// $XDG_CONFIG_HOME/topoview/config.toml.
//
// A missing file yields [Default]. Command-line flags override whatever
// the file sets; the CLI applies them after Load.
//
//	[render]
//	font_size = 12.0
//	meta_keys = ["loopback"]    # default: the topology's own meta_keys
//	strict_names = false
//
//	[layout]
//	engine = "neato"
//	ticks = 30
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/layout"
	"github.com/matzehuels/topoview/pkg/pipeline"
	"github.com/matzehuels/topoview/pkg/style"
)

// Config is the full settings file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls node drawing.
type RenderConfig struct {
	FontSize float64 `toml:"font_size"`
	// MetaKeys overrides the topology's meta_keys when set.
	MetaKeys    []string `toml:"meta_keys"`
	Palette     []string `toml:"palette"`
	StrictNames bool     `toml:"strict_names"`
	Scale       float64  `toml:"scale"` // PNG pixel density
	IconDir     string   `toml:"icon_dir"`
}

// LayoutConfig controls positioning.
type LayoutConfig struct {
	Engine       string   `toml:"engine"` // grid or a Graphviz program
	Ticks        int      `toml:"ticks"`
	TickDuration Duration `toml:"tick_duration"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // file, redis or none
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig controls `topoview serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	MaxBodySize int64    `toml:"max_body_size"`
	Timeout     Duration `toml:"timeout"`
}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			FontSize: 12,
			Palette:  slices.Clone([]string(style.Category10)),
			Scale:    2,
		},
		Layout: LayoutConfig{
			Engine:       "neato",
			Ticks:        30,
			TickDuration: Duration(16 * time.Millisecond),
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxBodySize: 1 << 20,
			Timeout:     Duration(30 * time.Second),
		},
	}
}

// Dir returns the config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "topoview")
}

// Path returns the config file path.
func Path() string { return filepath.Join(Dir(), "config.toml") }

// Load reads path (Path() when empty) over the defaults and validates the
// result. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (Path() when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	// Written so NaN fails too.
	if !(c.Render.FontSize > 0 && c.Render.FontSize <= pipeline.MaxFontSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.font_size must be in (0, %g]", pipeline.MaxFontSize)
	}
	if !(c.Render.Scale > 0 && c.Render.Scale <= pipeline.MaxScale) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be in (0, %g]", pipeline.MaxScale)
	}
	if _, ok := layout.New(c.Layout.Engine, nil); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.engine %q is not grid or one of %v",
			c.Layout.Engine, layout.Programs)
	}
	if c.Layout.Ticks < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.ticks cannot be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q is not file, redis or none", c.Cache.Backend)
	}
	return nil
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
