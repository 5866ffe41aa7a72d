package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDBFile = "inkwell.db"
)

// DefaultPath returns the default SQLite database path, relative to
// the current working directory.
func DefaultPath() string {
	return filepath.Join(".", DefaultDBFile)
}

// Exists reports whether a SQLite database file is present at path.
// A directory at the path is an error, not a missing database.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check database file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("database path is a directory, expected file: %s", path)
	}
	return true, nil
}
