// Package config reads and writes the global ~/.convo/config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the global configuration shared by every session.
type Config struct {
	DefaultSession string `toml:"default_session"`

	// SeedSample fills a fresh session database with sample conversations.
	SeedSample bool `toml:"seed_sample"`

	// Timezone is an IANA name used to render message times. Empty means local.
	Timezone string `toml:"timezone"`

	Outbox OutboxConfig `toml:"outbox"`
}

// OutboxConfig tunes the outbound message worker.
type OutboxConfig struct {
	// Buffer is the number of sent messages that may wait for the transport.
	Buffer int `toml:"buffer"`
	// Transport is "log" or "echo".
	Transport string `toml:"transport"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SeedSample: true,
		Outbox:     OutboxConfig{Buffer: 64, Transport: "log"},
	}
}

// Load reads config from path on top of Default. It returns an error if the
// file is missing; use LoadOrDefault to treat that as an empty file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Outbox.Buffer < 1 {
		return fmt.Errorf("outbox.buffer must be positive, got %d", c.Outbox.Buffer)
	}
	switch c.Outbox.Transport {
	case "log", "echo":
	default:
		return fmt.Errorf("outbox.transport must be log or echo, got %q", c.Outbox.Transport)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
