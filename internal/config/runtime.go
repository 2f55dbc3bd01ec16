package config

import (
	"os"
	"path/filepath"
)

// GetWorkingDir resolves LNSHELL_WORKING_DIR before the full config is
// parsed, so the .env file inside it can be loaded first.
func GetWorkingDir() string {
	path := os.Getenv("LNSHELL_WORKING_DIR")
	if path == "" {
		path = "."
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
