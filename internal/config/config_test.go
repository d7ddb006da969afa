package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Channel != "general" {
		t.Fatalf("default channel")
	}
	if cfg.Backend != BackendPebble {
		t.Fatalf("default backend")
	}
	if cfg.Viewport.Margin != 1 || cfg.Viewport.ScrollIntervalMs != 50 || cfg.Viewport.PruneDelayMs != 100 {
		t.Fatalf("viewport defaults: %+v", cfg.Viewport)
	}
	if cfg.Seed.Count != 10000 {
		t.Fatalf("seed count default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scrollback.json")
	data := []byte(`{"channel":"dev","backend":"sqlite","viewport":{"scrollIntervalMs":20,"pruneDelayMs":200,"margin":0}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Channel != "dev" || cfg.Backend != BackendSQLite {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Viewport.ScrollInterval().Milliseconds() != 20 || cfg.Viewport.Margin != 0 {
		t.Fatalf("viewport not loaded: %+v", cfg.Viewport)
	}
	// Unset fields keep defaults.
	if cfg.Seed.BatchSize != 500 {
		t.Fatalf("expected default batch size, got %d", cfg.Seed.BatchSize)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scrollback.yaml")
	data := []byte("channel: random\nfilter: author == \"Ada\"\nseed:\n  count: 42\n  randSeed: 7\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Channel != "random" || cfg.Filter != `author == "Ada"` {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Seed.Count != 42 || cfg.Seed.RandSeed != 7 || cfg.Seed.BatchSize != 500 {
		t.Fatalf("unexpected seed: %+v", cfg.Seed)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(file, []byte("channel: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("SCROLLBACK_CHANNEL", "staging")
	t.Setenv("SCROLLBACK_BACKEND", "sqlite")
	t.Setenv("SCROLLBACK_VIEWPORT_MARGIN", "2")
	t.Setenv("SCROLLBACK_SEED_RAND_SEED", "99")
	t.Setenv("SCROLLBACK_SEED_COUNT", "not-a-number")
	FromEnv(&cfg)
	if cfg.Channel != "staging" {
		t.Fatalf("env override channel")
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("env override backend")
	}
	if cfg.Viewport.Margin != 2 {
		t.Fatalf("env override margin")
	}
	if cfg.Seed.RandSeed != 99 {
		t.Fatalf("env override rand seed")
	}
	if cfg.Seed.Count != 10000 {
		t.Fatalf("malformed ints must be ignored")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend = "redis"
	cfg.Channel = "Bad Name"
	cfg.Viewport.Margin = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"backend", "channel", "margin"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
