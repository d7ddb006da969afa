package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/scrollback" {
		t.Errorf("Expected /custom/data/scrollback, got %s", got)
	}
}

func TestDefaultDataDirHomeFallbacks(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	if got, want := DefaultDataDir(), filepath.Join(home, ".scrollback"); got != want {
		t.Fatalf("bare home: got %s want %s", got, want)
	}

	if err := os.MkdirAll(filepath.Join(home, ".local", "share"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got, want := DefaultDataDir(), filepath.Join(home, ".local", "share", "scrollback"); got != want {
		t.Fatalf("xdg default: got %s want %s", got, want)
	}
}

func TestDefaultDataDirNoHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "")

	// UserHomeDir fails without HOME on unix.
	if result := DefaultDataDir(); result != "./data" {
		t.Errorf("Expected fallback to './data', got %s", result)
	}
}

func TestIsDir(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "existing directory",
			path:     ".",
			expected: true,
		},
		{
			name:     "non-existent path",
			path:     "/non/existent/path/that/does/not/exist",
			expected: false,
		},
		{
			name:     "file instead of directory",
			path:     os.Args[0], // current executable
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isDir(tt.path)
			if result != tt.expected {
				t.Errorf("isDir(%s) = %v, expected %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestDefaultDataDirNamesTheApp(t *testing.T) {
	result := DefaultDataDir()
	if result == "" {
		t.Fatal("DefaultDataDir should not return empty string")
	}
	if result != "./data" && !strings.HasSuffix(result, "scrollback") {
		t.Errorf("DefaultDataDir should end in 'scrollback', got %s", result)
	}
}
