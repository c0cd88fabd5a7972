package config

import (
	"os"
	"path/filepath"

	"github.com/videogen/outputs-preview/internal/constants"
)

// Environment variables consulted during path and secret resolution.
const (
	EnvSecretsPath   = "PREVIEW_SECRETS"
	EnvConfigPath    = "PREVIEW_CONFIG"
	EnvProxyPassword = "PREVIEW_PROXY_PASSWORD"
)

// ConfigDir is the per-user configuration directory name.
const ConfigDir = "outputs-preview"

// UserConfigDir returns ~/.config/outputs-preview (or the platform equivalent).
// Returns empty string if the user config directory can't be determined.
func UserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDir)
}

// ResolveSecretsPath returns the secrets file path and where it came from.
//
// Priority (highest to lowest):
//  1. flagValue (from --secrets)
//  2. PREVIEW_SECRETS environment variable
//  3. secrets.toml in the working directory, if it exists
//  4. secrets.toml in the user config directory, if it exists
//  5. secrets.toml in the working directory (default, may not exist)
//
// Source is one of "flag", "environment", "working-dir", "user-config", "default".
func ResolveSecretsPath(flagValue string) (string, string) {
	return resolvePath(flagValue, EnvSecretsPath, constants.DefaultSecretsFile)
}

// ResolveConfigPath returns the config file path and where it came from,
// using the same priority order as ResolveSecretsPath with PREVIEW_CONFIG.
func ResolveConfigPath(flagValue string) (string, string) {
	return resolvePath(flagValue, EnvConfigPath, constants.DefaultConfigFile)
}

func resolvePath(flagValue, envKey, fileName string) (string, string) {
	if flagValue != "" {
		return flagValue, "flag"
	}
	if v := os.Getenv(envKey); v != "" {
		return v, "environment"
	}
	if exists(fileName) {
		return fileName, "working-dir"
	}
	if dir := UserConfigDir(); dir != "" {
		p := filepath.Join(dir, fileName)
		if exists(p) {
			return p, "user-config"
		}
	}
	return fileName, "default"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
