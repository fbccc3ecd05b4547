package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Motion.HeaderOffset != 80 {
		t.Errorf("expected header offset 80, got %v", cfg.Motion.HeaderOffset)
	}
	if cfg.Motion.ScrollDuration != time.Second {
		t.Errorf("expected scroll duration 1s, got %v", cfg.Motion.ScrollDuration)
	}
	if cfg.Tracking.Retention != 365*24*time.Hour {
		t.Errorf("expected 12 month retention, got %v", cfg.Tracking.Retention)
	}
	if !strings.HasSuffix(cfg.Database.Path, filepath.Join(AppName, "visitors.db")) {
		t.Errorf("unexpected database path %q", cfg.Database.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if cfg.Motion.FrameInterval() != time.Second/60 {
		t.Errorf("FrameInterval = %v", cfg.Motion.FrameInterval())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yml")
	doc := `
server:
  port: 9000
  mode: release
admin:
  username: owner
  password: s3cret
tracking:
  retention: 720h
motion:
  scroll_duration: 1500ms
  viewport:
    width: 390
  particles:
    count: 5
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Tracking.Retention != 720*time.Hour {
		t.Errorf("retention = %v", cfg.Tracking.Retention)
	}
	if cfg.Motion.ScrollDuration != 1500*time.Millisecond {
		t.Errorf("scroll_duration = %v", cfg.Motion.ScrollDuration)
	}
	if cfg.Motion.Viewport.Width != 390 || cfg.Motion.Viewport.Height != 800 {
		t.Errorf("viewport = %+v, want width from file and default height", cfg.Motion.Viewport)
	}
	if cfg.Motion.Particles.Count != 5 || cfg.Motion.Particles.Interval != 800*time.Millisecond {
		t.Errorf("particles = %+v", cfg.Motion.Particles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("ADMIN_USERNAME", "ops")
	t.Setenv("FOLIO_ADMIN__PASSWORD", "from-env")
	t.Setenv("FOLIO_MOTION__PARTICLES__ENABLED", "false")
	t.Setenv("FOLIO_TRACKING__SWEEP_INTERVAL", "1h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("PORT not honoured: %d", cfg.Server.Port)
	}
	if cfg.Admin.Username != "ops" || cfg.Admin.Password != "from-env" {
		t.Errorf("admin = %+v", cfg.Admin)
	}
	if cfg.Motion.Particles.Enabled {
		t.Error("particles should be disabled")
	}
	if cfg.Tracking.SweepInterval != time.Hour {
		t.Errorf("sweep_interval = %v", cfg.Tracking.SweepInterval)
	}

	t.Setenv("FOLIO_SERVER__PORT", "4000")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("FOLIO_SERVER__PORT should win over PORT, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":             func(c *Config) { c.Server.Port = 70000 },
		"mode":             func(c *Config) { c.Server.Mode = "prod" },
		"empty admin":      func(c *Config) { c.Admin.Password = "" },
		"release defaults": func(c *Config) { c.Server.Mode = "release" },
		"no database":      func(c *Config) { c.Database.Path = "" },
		"qr size":          func(c *Config) { c.Content.QRSize = 10 },
		"frame rate":       func(c *Config) { c.Motion.FrameRate = 0 },
		"viewport":         func(c *Config) { c.Motion.Viewport.Height = 0 },
		"scroll ease":      func(c *Config) { c.Motion.ScrollEase = "wobble" },
		"lifetime":         func(c *Config) { c.Motion.Particles.LifetimeMax = 1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}

	cfg := DefaultConfig()
	cfg.Admin.Enabled = false
	cfg.Server.Mode = "release"
	if err := cfg.Validate(); err != nil {
		t.Errorf("release without admin: %v", err)
	}
}
