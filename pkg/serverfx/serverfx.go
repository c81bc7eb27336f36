package serverfx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
)

// Config names the env keys a service reads at startup, so several services
// can share one host without colliding.
type Config struct {
	Service         string // for logs only
	ManifestEnv     string // e.g. DISPATCH_MANIFEST
	DefaultManifest string // e.g. "manifest.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	WorkersEnv      string // SERVER_WORKERS
	AdminEnv        string // ADMIN_LISTEN_ADDRESS
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithWorkersEnv(k string) Option         { return func(c *Config) { c.WorkersEnv = k } }
func WithAdminEnv(k string) Option           { return func(c *Config) { c.AdminEnv = k } }

func defaultConfig() Config {
	return Config{
		Service:         "dispatch",
		ManifestEnv:     "DISPATCH_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		WorkersEnv:      "SERVER_WORKERS",
		AdminEnv:        "ADMIN_LISTEN_ADDRESS",
	}
}

// provideManifest loads the manifest (defaults when the file is absent) and
// applies env overrides on top.
func provideManifest(cfg Config) (manifest.Config, error) {
	path := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := core.LoadConfigOrDefault(path)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := applyEnv(cfg, &man); err != nil {
		return manifest.Config{}, err
	}
	if err := man.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return man, nil
}

func applyEnv(cfg Config, man *manifest.Config) error {
	if v := os.Getenv(cfg.ListenEnv); v != "" {
		man.Server.Address = v
	}
	if v := os.Getenv(cfg.AdminEnv); v != "" {
		man.Admin.Address = v
	}
	if v := os.Getenv(cfg.WorkersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", cfg.WorkersEnv, v, err)
		}
		man.Server.Workers = n
	}
	return nil
}

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
