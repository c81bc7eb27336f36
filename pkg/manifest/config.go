package manifest

import (
	"fmt"
	"net"
	"strings"
)

// Config is the top-level manifest.
type Config struct {
	Server Server `toml:"server"`
	Admin  Admin  `toml:"admin"`
	Log    Log    `toml:"log"`
	Auth   Auth   `toml:"auth"`
}

// Default returns a manifest with every default filled in.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadBufferSize <= 0 {
		c.Server.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Server.MaxHeaders <= 0 {
		c.Server.MaxHeaders = DefaultMaxHeaders
	}
	if c.Log.Dir == "" {
		c.Log.Dir = DefaultLogDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Auth.TokenLifetimeMS <= 0 {
		c.Auth.TokenLifetimeMS = DefaultTokenLifetimeMS
	}
}

// Validate checks the manifest after defaults are applied.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return fmt.Errorf("server.address %q: %w", c.Server.Address, err)
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("server.workers must be >= 0, got %d", c.Server.Workers)
	}
	if c.Server.ReadBufferSize < 64 {
		return fmt.Errorf("server.read_buffer_size must be >= 64, got %d", c.Server.ReadBufferSize)
	}
	if c.Server.HandlerTimeoutMS < 0 {
		return fmt.Errorf("server.handler_timeout_ms must be >= 0, got %d", c.Server.HandlerTimeoutMS)
	}
	if c.Admin.Address != "" {
		if _, _, err := net.SplitHostPort(c.Admin.Address); err != nil {
			return fmt.Errorf("admin.address %q: %w", c.Admin.Address, err)
		}
		if c.Admin.Address == c.Server.Address {
			return fmt.Errorf("admin.address must differ from server.address")
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Auth.FutureLeewayMS < 0 {
		return fmt.Errorf("auth.future_leeway_ms must be >= 0")
	}
	if c.Auth.IssuerURL != "" && c.Auth.PublicKeyFile == "" && c.Auth.Login == "" {
		return fmt.Errorf("auth.issuer_url requires auth.login")
	}
	return nil
}
