// Package config loads the kgview configuration file.
//
// The file lives at $XDG_CONFIG_HOME/kgview/config.toml (or
// ~/.config/kgview/config.toml). A missing file yields [Default]; fields
// absent from the file keep their defaults. Command-line flags override
// whatever is loaded here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/view"
)

const appName = "kgview"

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config holds kgview configuration.
type Config struct {
	Palette PaletteConfig `toml:"palette"`
	Labels  LabelsConfig  `toml:"labels"`
	Camera  CameraConfig  `toml:"camera"`
	Server  ServerConfig  `toml:"server"`
	Redis   RedisConfig   `toml:"redis"`
	Cache   CacheConfig   `toml:"cache"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// PaletteConfig sets the base and highlight colors.
type PaletteConfig struct {
	Node      string `toml:"node"`
	Link      string `toml:"link"`
	Highlight string `toml:"highlight"`
}

// LabelsConfig sets the zoom level at which labels appear.
type LabelsConfig struct {
	NodeMinZoom float64 `toml:"node_min_zoom"`
	LinkMinZoom float64 `toml:"link_min_zoom"`
}

// CameraConfig sets the camera move issued after a successful search.
type CameraConfig struct {
	Zoom       float64 `toml:"zoom"`
	DurationMS int     `toml:"duration_ms"`
}

// ServerConfig controls the HTTP adapter.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	SessionBackend string   `toml:"session_backend"` // "memory", "file", "redis"
	SessionTTL     Duration `toml:"session_ttl"`
	SessionDir     string   `toml:"session_dir"` // file backend only; default under Dir()
}

// RedisConfig is shared by the redis session store and cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// CacheConfig controls caching of remote datasets and snapshots.
type CacheConfig struct {
	Disabled bool     `toml:"disabled"`
	Redis    bool     `toml:"redis"` // use [redis] instead of the cache directory
	TTL      Duration `toml:"ttl"`
}

// MongoConfig supplies defaults for mongodb:// dataset URIs.
type MongoConfig struct {
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a Go duration string ("12h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Palette: PaletteConfig{
			Node:      graph.DefaultNodeColor,
			Link:      graph.DefaultLinkColor,
			Highlight: view.DefaultHighlightColor,
		},
		Labels: LabelsConfig{
			NodeMinZoom: view.DefaultNodeLabelZoom,
			LinkMinZoom: view.DefaultLinkLabelZoom,
		},
		Camera: CameraConfig{
			Zoom:       view.DefaultSearchZoom,
			DurationMS: int(view.DefaultSearchDuration / time.Millisecond),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			SessionBackend: BackendMemory,
			SessionTTL:     Duration{12 * time.Hour},
		},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "kgview:"},
		Cache: CacheConfig{TTL: Duration{24 * time.Hour}},
		Mongo: MongoConfig{Database: appName, Collection: "graphs"},
	}
}

// Dir returns the kgview config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. An empty path means Path().
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
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. An empty path
// means Path().
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	switch c.Server.SessionBackend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("server.session_backend must be memory, file or redis, got %q", c.Server.SessionBackend)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be positive")
	}
	if c.Camera.DurationMS < 0 {
		return fmt.Errorf("camera.duration_ms cannot be negative")
	}
	if c.Labels.NodeMinZoom < 0 || c.Labels.LinkMinZoom < 0 {
		return fmt.Errorf("labels thresholds cannot be negative")
	}
	return nil
}

// Colors returns the base colors for graph.Parse.
func (c *Config) Colors() graph.Colors {
	return graph.Colors{Node: c.Palette.Node, Link: c.Palette.Link}
}

// Resolver returns the color and label resolver.
func (c *Config) Resolver() view.Resolver {
	return view.Resolver{
		Palette: view.Palette{Highlight: c.Palette.Highlight},
		Labels:  view.LabelThresholds{Node: c.Labels.NodeMinZoom, Link: c.Labels.LinkMinZoom},
	}
}

// CameraSettings returns the search camera move.
func (c *Config) CameraSettings() view.CameraSettings {
	return view.CameraSettings{
		Zoom:     c.Camera.Zoom,
		Duration: time.Duration(c.Camera.DurationMS) * time.Millisecond,
	}
}

// SessionDir returns the file session directory.
func (c *Config) SessionDir() string {
	if c.Server.SessionDir != "" {
		return c.Server.SessionDir
	}
	return filepath.Join(Dir(), "sessions")
}
