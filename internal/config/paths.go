// ABOUTME: Standard filesystem paths for fedibot configuration
// ABOUTME: Resolves ~/.fedibot/ for the global settings file

package config

import (
	"os"
	"path/filepath"
)

const globalDirName = ".fedibot"

// GlobalDir returns the user-global config directory (~/.fedibot/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}
