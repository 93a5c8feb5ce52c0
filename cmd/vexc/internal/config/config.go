// Package config reads and writes vex.yaml, the per-project settings
// for the vexc commands. CLI flags layer over file values, which layer
// over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/recera/vex/pkg/transform"
)

// FileName is the project configuration file looked up by Load.
const FileName = "vex.yaml"

// Config represents the vex.yaml configuration.
type Config struct {
	// Src is the directory scanned for .vex components.
	Src string `yaml:"src,omitempty"`

	// Out is the directory compiled modules are written into, mirroring
	// the source layout. Empty writes each module next to its source.
	Out string `yaml:"out,omitempty"`

	// Mode selects the default backend: dom, vapor or ssr.
	Mode string `yaml:"mode,omitempty"`

	// RuntimeModule overrides the helper import path in generated code.
	RuntimeModule string `yaml:"runtimeModule,omitempty"`

	// Cache configures the build artifact cache used by watch.
	Cache *CacheConfig `yaml:"cache,omitempty"`

	// Dev configures the live reload server.
	Dev *DevConfig `yaml:"dev,omitempty"`
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	// Enabled toggles caching in watch mode.
	Enabled bool `yaml:"enabled"`

	// Dir overrides the cache directory. Empty uses the per-user
	// default.
	Dir string `yaml:"dir,omitempty"`

	// MaxSize bounds the cache in bytes.
	MaxSize int64 `yaml:"maxSize,omitempty"`
}

// DevConfig controls the reload server address.
type DevConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// DefaultConfig returns the configuration used when vex.yaml is absent.
func DefaultConfig() *Config {
	return &Config{
		Src:  ".",
		Mode: "dom",
		Cache: &CacheConfig{
			Enabled: true,
			MaxSize: 256 << 20,
		},
		Dev: &DevConfig{
			Host: "localhost",
			Port: 35729,
		},
	}
}

// Load reads vex.yaml from projectPath. A missing file yields the
// defaults; a present file is validated and padded with defaults for
// anything it leaves out.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, FileName)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	return &cfg, nil
}

// Save writes the configuration to vex.yaml in projectPath.
func Save(cfg *Config, projectPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, FileName), data, 0o644)
}

// applyDefaults fills unset fields from DefaultConfig.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Src == "" {
		cfg.Src = defaults.Src
	}
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}

	if cfg.Cache == nil {
		cfg.Cache = defaults.Cache
	} else if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = defaults.Cache.MaxSize
	}

	if cfg.Dev == nil {
		cfg.Dev = defaults.Dev
	} else {
		if cfg.Dev.Host == "" {
			cfg.Dev.Host = defaults.Dev.Host
		}
		if cfg.Dev.Port == 0 {
			cfg.Dev.Port = defaults.Dev.Port
		}
	}
}

// Validate checks values that cannot be defaulted into shape.
func (c *Config) Validate() error {
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// BackendMode resolves the configured mode name.
func (c *Config) BackendMode() transform.Mode {
	m, err := ParseMode(c.Mode)
	if err != nil {
		return transform.ModeDOM
	}
	return m
}

// ParseMode maps a mode name from configuration or flags to its
// backend.
func ParseMode(name string) (transform.Mode, error) {
	switch name {
	case "dom":
		return transform.ModeDOM, nil
	case "vapor":
		return transform.ModeVapor, nil
	case "ssr":
		return transform.ModeSSR, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want dom, vapor or ssr)", name)
	}
}
