package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/view"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Palette.Highlight != "#2a4d6f" {
		t.Errorf("highlight = %q", cfg.Palette.Highlight)
	}
	if cfg.Camera.Zoom != 4 || cfg.Camera.DurationMS != 1000 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Server.SessionBackend != BackendMemory {
		t.Errorf("session backend = %q", cfg.Server.SessionBackend)
	}
	if got := cfg.Colors(); got != graph.DefaultColors() {
		t.Errorf("Colors() = %+v", got)
	}
	if got := cfg.Resolver(); got != view.NewResolver() {
		t.Errorf("Resolver() = %+v", got)
	}
	if got := cfg.CameraSettings(); got != view.DefaultCameraSettings() {
		t.Errorf("CameraSettings() = %+v", got)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := Dir(); dir != "/tmp/test-xdg/kgview" {
		t.Errorf("expected /tmp/test-xdg/kgview, got %q", dir)
	}
	if p := Path(); p != "/tmp/test-xdg/kgview/config.toml" {
		t.Errorf("Path() = %q", p)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if dir := Dir(); dir != filepath.Join(home, ".config", "kgview") {
		t.Errorf("Dir() = %q", dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Palette.Highlight = "#ff8800"
	cfg.Server.SessionBackend = BackendRedis
	cfg.Server.SessionTTL = Duration{90 * time.Minute}
	cfg.Redis.DB = 3

	if err := Save("", cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Palette.Highlight != "#ff8800" {
		t.Errorf("highlight = %q", loaded.Palette.Highlight)
	}
	if loaded.Server.SessionBackend != BackendRedis {
		t.Errorf("backend = %q", loaded.Server.SessionBackend)
	}
	if loaded.Server.SessionTTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v", loaded.Server.SessionTTL)
	}
	if loaded.Redis.DB != 3 {
		t.Errorf("redis db = %d", loaded.Redis.DB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Error("missing file should give defaults")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[labels]
node_min_zoom = 0.5

[cache]
ttl = "30m"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Labels.NodeMinZoom != 0.5 {
		t.Errorf("node_min_zoom = %v", cfg.Labels.NodeMinZoom)
	}
	if cfg.Labels.LinkMinZoom != view.DefaultLinkLabelZoom {
		t.Errorf("link_min_zoom should keep default, got %v", cfg.Labels.LinkMinZoom)
	}
	if cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if !cfg.Resolver().NodeLabelVisible(0.5) {
		t.Error("resolver should use the configured threshold")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Syntax", "[server\naddr = 1", "parse"},
		{"BadDuration", "[server]\nsession_ttl = \"forever\"", "parse"},
		{"BadBackend", "[server]\nsession_backend = \"etcd\"", "session_backend"},
		{"ZeroZoom", "[camera]\nzoom = 0", "camera.zoom"},
		{"NegativeDuration", "[camera]\nduration_ms = -5", "duration_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSessionDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/x")
	cfg := Default()
	if got := cfg.SessionDir(); got != "/tmp/x/kgview/sessions" {
		t.Errorf("SessionDir() = %q", got)
	}
	cfg.Server.SessionDir = "/srv/sessions"
	if got := cfg.SessionDir(); got != "/srv/sessions" {
		t.Errorf("SessionDir() = %q", got)
	}
}
