// Package config loads the site configuration: built-in defaults, an
// optional YAML file, then FOLIO_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zachkp/folio/internal/motion"
	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppName names the data directory.
const AppName = "folio"

// EnvPrefix prefixes every environment override. Nested keys are joined with
// a double underscore: FOLIO_SERVER__PORT sets server.port.
const EnvPrefix = "FOLIO_"

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Admin    AdminConfig    `koanf:"admin"`
	Database DatabaseConfig `koanf:"database"`
	Tracking TrackingConfig `koanf:"tracking"`
	Content  ContentConfig  `koanf:"content"`
	Motion   MotionConfig   `koanf:"motion"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode            string        `koanf:"mode"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AdminConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// SessionTTL is how long the admin cookie lasts.
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// UsingDefaultCredentials reports whether the built-in development login is
// still in place.
func (a AdminConfig) UsingDefaultCredentials() bool {
	return a.Username == defaultAdminUser && a.Password == defaultAdminPassword
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type TrackingConfig struct {
	Enabled    bool          `koanf:"enabled"`
	RespectDNT bool          `koanf:"respect_dnt"`
	Retention  time.Duration `koanf:"retention"`
	// SweepInterval is how often rows older than Retention are removed.
	SweepInterval time.Duration `koanf:"sweep_interval"`
	// HashSalt keeps visitor hashes stable across restarts. Empty picks a
	// random salt per run.
	HashSalt string `koanf:"hash_salt"`
}

type ContentConfig struct {
	// Path is a portfolio YAML file; empty uses the built-in one.
	Path string `koanf:"path"`
	// QRSize is the contact QR code edge in pixels.
	QRSize int `koanf:"qr_size"`
}

type MotionConfig struct {
	HeaderOffset   float64         `koanf:"header_offset"`
	ScrollDuration time.Duration   `koanf:"scroll_duration"`
	ScrollEase     string          `koanf:"scroll_ease"`
	FrameRate      int             `koanf:"frame_rate"`
	Viewport       ViewportConfig  `koanf:"viewport"`
	Seed           uint64          `koanf:"seed"`
	Particles      ParticlesConfig `koanf:"particles"`
}

// FrameInterval converts FrameRate to a frame period.
func (m MotionConfig) FrameInterval() time.Duration {
	if m.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(m.FrameRate)
}

type ViewportConfig struct {
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

type ParticlesConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Count       int           `koanf:"count"`
	Interval    time.Duration `koanf:"interval"`
	Stagger     time.Duration `koanf:"stagger"`
	LifetimeMin float64       `koanf:"lifetime_min"`
	LifetimeMax float64       `koanf:"lifetime_max"`
}

const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin123"
)

// DefaultDatabasePath is the visitor database under the XDG data home.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, AppName, "visitors.db")
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Admin: AdminConfig{
			Enabled:    true,
			Username:   defaultAdminUser,
			Password:   defaultAdminPassword,
			SessionTTL: 24 * time.Hour,
		},
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Tracking: TrackingConfig{
			Enabled:       true,
			RespectDNT:    true,
			Retention:     365 * 24 * time.Hour,
			SweepInterval: 24 * time.Hour,
		},
		Content: ContentConfig{QRSize: 256},
		Motion: MotionConfig{
			HeaderOffset:   80,
			ScrollDuration: time.Second,
			ScrollEase:     "power3.inOut",
			FrameRate:      60,
			Viewport:       ViewportConfig{Width: 1280, Height: 800},
			Seed:           1,
			Particles: ParticlesConfig{
				Enabled:     true,
				Count:       20,
				Interval:    800 * time.Millisecond,
				Stagger:     100 * time.Millisecond,
				LifetimeMin: 4,
				LifetimeMax: 10,
			},
		},
	}
}

// Load reads configuration from path (if it exists), then overlays the
// environment. PORT, ADMIN_USERNAME and ADMIN_PASSWORD are honoured for
// compatibility; FOLIO_* variables take precedence over them.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	for key, name := range map[string]string{
		"server.port":    "PORT",
		"admin.username": "ADMIN_USERNAME",
		"admin.password": "ADMIN_PASSWORD",
	} {
		if v := os.Getenv(name); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("applying %s: %w", name, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Admin.Enabled && (c.Admin.Username == "" || c.Admin.Password == "") {
		return fmt.Errorf("admin.username and admin.password are required when admin is enabled")
	}
	if c.Admin.Enabled && c.Server.Mode == "release" && c.Admin.UsingDefaultCredentials() {
		return fmt.Errorf("default admin credentials are not allowed in release mode")
	}
	if c.Tracking.Enabled && c.Database.Path == "" {
		return fmt.Errorf("database.path is required when tracking is enabled")
	}
	if c.Tracking.Retention < 0 || c.Tracking.SweepInterval < 0 {
		return fmt.Errorf("tracking durations must be non-negative")
	}
	if c.Content.QRSize < 64 || c.Content.QRSize > 1024 {
		return fmt.Errorf("content.qr_size %d must be between 64 and 1024", c.Content.QRSize)
	}
	m := c.Motion
	if m.HeaderOffset < 0 {
		return fmt.Errorf("motion.header_offset must be non-negative")
	}
	if m.FrameRate < 1 || m.FrameRate > 240 {
		return fmt.Errorf("motion.frame_rate %d must be between 1 and 240", m.FrameRate)
	}
	if m.Viewport.Width <= 0 || m.Viewport.Height <= 0 {
		return fmt.Errorf("motion.viewport must have a positive size")
	}
	if !motion.KnownEase(m.ScrollEase) {
		return fmt.Errorf("motion.scroll_ease %q is not a known ease", m.ScrollEase)
	}
	p := m.Particles
	if p.Count < 0 || p.Interval < 0 || p.Stagger < 0 {
		return fmt.Errorf("motion.particles values must be non-negative")
	}
	if p.LifetimeMin <= 0 || p.LifetimeMax < p.LifetimeMin {
		return fmt.Errorf("motion.particles lifetime range [%g, %g] is invalid", p.LifetimeMin, p.LifetimeMax)
	}
	return nil
}
