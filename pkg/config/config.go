// Package config loads exprtree's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/exprtree/config.toml (falling back to
// ~/.config/exprtree/config.toml). Every key is optional; a missing file
// yields [Default]. Command-line flags override values from the file.
//
//	[layout]
//	width = 800
//	height = 600
//
//	[render]
//	style = "blueprint"
//	formats = ["svg", "json"]
//	result = true
//
//	[cache]
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//
//	[session]
//	backend = "redis"   # memory, file, redis, mongo
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	metrics = true
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "exprtree"

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the decoded configuration file.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig holds the default layout frame. Zero means the pipeline
// default.
type LayoutConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type RenderConfig struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
	// Result adds a "= result" caption to canvas renders.
	Result bool `toml:"result"`
}

type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir string        `toml:"dir"`
	TTL time.Duration `toml:"ttl"`
	// RedisAddr switches the cache to Redis when set.
	RedisAddr string `toml:"redis_addr"`
	Disabled  bool   `toml:"disabled"`
}

type SessionConfig struct {
	Backend       string        `toml:"backend"`
	TTL           time.Duration `toml:"ttl"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{TTL: 7 * 24 * time.Hour},
		Session: SessionConfig{
			Backend:       BackendMemory,
			TTL:           24 * time.Hour,
			MongoDatabase: appName,
		},
		Server: ServerConfig{Addr: ":8080", Metrics: true},
	}
}

// Path returns the configuration file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error. Unknown keys are, so that typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return parse(data, cfg, path)
}

// LoadDefault loads the file at [Path].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

func parse(data []byte, cfg Config, path string) (Config, error) {
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks values that decode fine but cannot be used.
func (c Config) Validate() error {
	if c.Layout.Width < 0 || c.Layout.Height < 0 {
		return fmt.Errorf("layout dimensions must not be negative")
	}
	if c.Cache.TTL < 0 || c.Session.TTL < 0 {
		return fmt.Errorf("ttl must not be negative")
	}
	backends := []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}
	if !slices.Contains(backends, c.Session.Backend) {
		return fmt.Errorf("unknown session backend %q (available: %s)", c.Session.Backend, strings.Join(backends, ", "))
	}
	switch {
	case c.Session.Backend == BackendRedis && c.Session.RedisAddr == "":
		return fmt.Errorf("session backend redis requires redis_addr")
	case c.Session.Backend == BackendMongo && c.Session.MongoURI == "":
		return fmt.Errorf("session backend mongo requires mongo_uri")
	}
	return nil
}
