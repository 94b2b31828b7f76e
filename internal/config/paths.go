package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath returns the config file location: FileName in the directory
// holding the running binary.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating binary: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}
