// Package storage persists game sessions in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrelay"

// baseDataDir returns the per-user data root for the current platform.
func baseDataDir() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDataDir returns the platform-specific data directory for the application,
// creating it if needed.
// - macOS: ~/Library/Application Support/chessrelay/
// - Linux: $XDG_DATA_HOME/chessrelay/ or ~/.local/share/chessrelay/
// - Windows: %APPDATA%/chessrelay/
func GetDataDir() (string, error) {
	return subDir()
}

// subDir returns a directory under the data directory, creating it.
func subDir(names ...string) (string, error) {
	base, err := baseDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(append([]string{base, appName}, names...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetArchiveDir returns the directory for Parquet move-log exports.
func GetArchiveDir() (string, error) {
	return subDir("archive")
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	return subDir("db")
}
