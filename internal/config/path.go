package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the per-user data directory. It honours
// XDG_DATA_HOME, then the platform's application data location, and falls
// back to a dotdir in the home directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrollback")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	// macOS: ~/Library/Application Support/scrollback
	if isDir(filepath.Join(homeDir, "Library", "Application Support")) {
		return filepath.Join(homeDir, "Library", "Application Support", "scrollback")
	}

	// Windows: %USERPROFILE%/AppData/Local/scrollback
	if isDir(filepath.Join(homeDir, "AppData", "Local")) {
		return filepath.Join(homeDir, "AppData", "Local", "scrollback")
	}

	// Linux default: ~/.local/share/scrollback
	if isDir(filepath.Join(homeDir, ".local", "share")) {
		return filepath.Join(homeDir, ".local", "share", "scrollback")
	}

	return filepath.Join(homeDir, ".scrollback")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
