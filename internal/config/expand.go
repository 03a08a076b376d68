package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// expandPaths applies ExpandTilde to every path-valued setting.
func expandPaths(cfg *Config) {
	cfg.LogFile = ExpandTilde(cfg.LogFile)
	cfg.SSHConfig = ExpandTilde(cfg.SSHConfig)
}
