// Package storage reads and writes orgit's JSON files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "orgit"

// CacheDir returns the orgit directory below the user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux). It is not created.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// SaveJSON writes data as indented JSON to path, creating parent directories.
// The document goes to a uniquely named temp file next to path first and is
// renamed into place, so readers see either the old or the new file.
func SaveJSON(path string, data any) error {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	// Removing after a successful rename is a no-op.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(body, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadJSON decodes the JSON file at path into dest.
// A missing file returns the unwrapped os.ReadFile error, so
// errors.Is(err, os.ErrNotExist) holds.
func LoadJSON(path string, dest any) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
