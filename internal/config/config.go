// Package config loads the optional gopher-perform configuration file.
// Command-line flags always win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the daemon's tunables.
type Config struct {
	// Device restricts connections to one named input port. Empty connects
	// to everything visible.
	Device string `toml:"device"`

	// Mappings is the path of a mapping file that replaces the built-in
	// default table.
	Mappings string `toml:"mappings"`

	// DryRun logs key events instead of synthesizing them.
	DryRun bool `toml:"dry_run"`

	// Debug enables debug logging with source locations.
	Debug bool `toml:"debug"`

	// PollIntervalMs is the device rescan interval in milliseconds.
	PollIntervalMs int `toml:"poll_interval_ms"`

	// SettleDelayMs is the pause after the held-modifier set changes,
	// in milliseconds.
	SettleDelayMs int `toml:"settle_delay_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollIntervalMs: 1000,
		SettleDelayMs:  10,
	}
}

// DefaultPath returns the platform config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gopher-perform", "config.toml"), nil
}

// Load reads the config at path. An empty path means the default location,
// and a missing file there is not an error; an explicitly requested file
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs)
	}
	if c.SettleDelayMs < 0 {
		return fmt.Errorf("settle_delay_ms cannot be negative, got %d", c.SettleDelayMs)
	}
	return nil
}

// PollInterval returns the rescan interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// SettleDelay returns the modifier settle pause as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}
