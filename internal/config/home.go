package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// HomeEnv names the environment variable that overrides the state directory
	HomeEnv = "SHEETMERGE_HOME"
	// ConfigFileName is the config file looked up in the home directory
	ConfigFileName = "config.yaml"
)

// GetHome returns the directory holding sheetmerge state (config, logs, history, lock).
// Priority order:
//  1. SHEETMERGE_HOME environment variable (if set)
//  2. .sheetmerge in the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, ".sheetmerge")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create sheetmerge home directory: %w", err)
	}
	return home, nil
}

// GetHistoryDBPath returns the history database path.
// A non-empty configured path wins; otherwise $SHEETMERGE_HOME/history/runs.db
func GetHistoryDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history", "runs.db"), nil
}

// GetLogDir returns the run log directory.
// A non-empty configured path wins; otherwise $SHEETMERGE_HOME/logs
func GetLogDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "logs"), nil
}

// GetLockPath returns the path of the cross-process merge lock
func GetLockPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "sheetmerge.lock"), nil
}
