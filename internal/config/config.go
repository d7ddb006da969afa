package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends understood by runtime.Open.
const (
	BackendPebble = "pebble"
	BackendSQLite = "sqlite"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Channel          string   `json:"channel" yaml:"channel"`
	Backend          string   `json:"backend" yaml:"backend"`
	ChannelNameRegex string   `json:"channelNameRegex" yaml:"channelNameRegex"`
	Filter           string   `json:"filter" yaml:"filter"`
	Viewport         Viewport `json:"viewport" yaml:"viewport"`
	Seed             Seed     `json:"seed" yaml:"seed"`
}

// Viewport tunes the windowed renderer.
type Viewport struct {
	ScrollIntervalMs int `json:"scrollIntervalMs" yaml:"scrollIntervalMs"`
	PruneDelayMs     int `json:"pruneDelayMs" yaml:"pruneDelayMs"`
	// Margin is the blank rows between messages.
	Margin int `json:"margin" yaml:"margin"`
}

// ScrollInterval returns the scroll throttle interval.
func (v Viewport) ScrollInterval() time.Duration {
	return time.Duration(v.ScrollIntervalMs) * time.Millisecond
}

// PruneDelay returns the prune debounce delay.
func (v Viewport) PruneDelay() time.Duration {
	return time.Duration(v.PruneDelayMs) * time.Millisecond
}

// Seed controls demo data generation.
type Seed struct {
	Count     int   `json:"count" yaml:"count"`
	BatchSize int   `json:"batchSize" yaml:"batchSize"`
	RandSeed  int64 `json:"randSeed" yaml:"randSeed"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Channel:          "general",
		Backend:          BackendPebble,
		ChannelNameRegex: `^[a-z0-9_-]{1,64}$`,
		Viewport: Viewport{
			ScrollIntervalMs: 50,
			PruneDelayMs:     100,
			Margin:           1,
		},
		Seed: Seed{
			Count:     10000,
			BatchSize: 500,
			RandSeed:  1,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendPebble, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("backend %q: use %s|%s", c.Backend, BackendPebble, BackendSQLite))
	}
	if re, err := regexp.Compile(c.ChannelNameRegex); err != nil {
		errs = append(errs, fmt.Errorf("channelNameRegex: %w", err))
	} else if !re.MatchString(c.Channel) {
		errs = append(errs, fmt.Errorf("channel %q does not match %s", c.Channel, c.ChannelNameRegex))
	}
	if c.Viewport.ScrollIntervalMs < 0 {
		errs = append(errs, errors.New("viewport.scrollIntervalMs must be >= 0"))
	}
	if c.Viewport.PruneDelayMs < 0 {
		errs = append(errs, errors.New("viewport.pruneDelayMs must be >= 0"))
	}
	if c.Viewport.Margin < 0 {
		errs = append(errs, errors.New("viewport.margin must be >= 0"))
	}
	if c.Seed.Count < 0 {
		errs = append(errs, errors.New("seed.count must be >= 0"))
	}
	if c.Seed.BatchSize <= 0 {
		errs = append(errs, errors.New("seed.batchSize must be > 0"))
	}
	return errors.Join(errs...)
}
