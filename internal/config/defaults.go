package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// DefaultModelFilename is the artifact file looked up in the models directory.
	DefaultModelFilename = "performance_forest.json"

	// DefaultCommandTimeout bounds a single external predictor run.
	DefaultCommandTimeout = 10 * time.Second
)

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return 8501
}

// DefaultGRPCPort returns the default gRPC port.
func DefaultGRPCPort() int {
	return 9501
}

// DefaultConfigPath returns the default path for the perfpredict config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "perfpredict", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "perfpredict")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "perfpredict")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "perfpredict")
		}
		return filepath.Join(home, ".config", "perfpredict")
	}
}

// DefaultModelsPath returns the default path for the perfpredict models directory.
func DefaultModelsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "perfpredict", "models")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "perfpredict", "models")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "perfpredict", "models")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "perfpredict", "models")
		}
		return filepath.Join(home, ".local", "share", "perfpredict", "models")
	}
}
