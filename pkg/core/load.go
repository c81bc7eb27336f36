// pkg/core/load.go
package core

import (
	"errors"
	"io/fs"
	"os"

	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes a TOML manifest, fills defaults and validates it.
func ParseConfig(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return manifest.Config{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}

// LoadConfigOrDefault is LoadConfig, except a missing file yields the defaults.
func LoadConfigOrDefault(path string) (manifest.Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return manifest.Default(), nil
	}
	return cfg, err
}
