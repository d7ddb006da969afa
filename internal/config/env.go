package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SCROLLBACK_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SCROLLBACK_CHANNEL"); v != "" {
		cfg.Channel = v
	}
	if v := os.Getenv("SCROLLBACK_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("SCROLLBACK_CHANNEL_NAME_REGEX"); v != "" {
		cfg.ChannelNameRegex = v
	}
	if v := os.Getenv("SCROLLBACK_FILTER"); v != "" {
		cfg.Filter = v
	}
	envInt("SCROLLBACK_VIEWPORT_SCROLL_INTERVAL_MS", &cfg.Viewport.ScrollIntervalMs)
	envInt("SCROLLBACK_VIEWPORT_PRUNE_DELAY_MS", &cfg.Viewport.PruneDelayMs)
	envInt("SCROLLBACK_VIEWPORT_MARGIN", &cfg.Viewport.Margin)
	envInt("SCROLLBACK_SEED_COUNT", &cfg.Seed.Count)
	envInt("SCROLLBACK_SEED_BATCH_SIZE", &cfg.Seed.BatchSize)
	if v := os.Getenv("SCROLLBACK_SEED_RAND_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed.RandSeed = n
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
