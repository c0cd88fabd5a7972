// Package config provides configuration management for outputs-preview.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/videogen/outputs-preview/internal/constants"
)

// Config is the application configuration.
//
// TOML format:
//
//	[server]
//	listen = ":8501"
//
//	[drive]
//	outputs_folder = "Outputs"
//
//	[cache]
//	max_entries = 100
//
//	[proxy]
//	mode = "system"        # no-proxy, system, basic, ntlm
//	host = "proxy.corp"
//	port = 8080
//	user = ""
//	no_proxy = "*.internal.corp"
//	warmup = false
type Config struct {
	Server Server `toml:"server"`
	Drive  Drive  `toml:"drive"`
	Cache  Cache  `toml:"cache"`
	Proxy  Proxy  `toml:"proxy"`
}

// Server contains web server settings.
type Server struct {
	Listen string `toml:"listen"`
}

// Drive contains storage lookup settings.
type Drive struct {
	OutputsFolder string `toml:"outputs_folder"`
}

// Cache contains settings for the in-memory download cache.
type Cache struct {
	MaxEntries int `toml:"max_entries"`
}

// Proxy contains outbound proxy settings for Drive traffic.
type Proxy struct {
	Mode    string `toml:"mode"` // "no-proxy", "system", "basic", "ntlm"
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	User    string `toml:"user"`
	NoProxy string `toml:"no_proxy"` // Comma-separated list of hosts to bypass proxy
	Warmup  bool   `toml:"warmup"`

	// Password is never read from or written to the config file.
	// It comes from PREVIEW_PROXY_PASSWORD at runtime.
	Password string `toml:"-"`
}

// Validation errors
var (
	ErrInvalidCacheSize = errors.New("cache.max_entries must be at least 1")
	ErrInvalidProxyMode = errors.New("proxy.mode must be one of no-proxy, system, basic, ntlm")
	ErrMissingProxyHost = errors.New("proxy.host is required for basic and ntlm modes")
	ErrMissingListen    = errors.New("server.listen is required")
	ErrMissingOutputs   = errors.New("drive.outputs_folder is required")
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Server: Server{Listen: constants.DefaultListenAddr},
		Drive:  Drive{OutputsFolder: constants.OutputsFolderName},
		Cache:  Cache{MaxEntries: constants.DefaultCacheEntries},
		Proxy:  Proxy{Mode: "no-proxy"},
	}
}

// Load reads configuration from a TOML file on top of the defaults.
// If path is empty or the file doesn't exist, the defaults are returned with no error.
// If the file exists but is invalid, an error is returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Proxy.Password = os.Getenv(EnvProxyPassword)

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize fills zero values left by a partial config file.
func (c *Config) normalize() {
	defaults := Default()
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = defaults.Server.Listen
	}
	c.Drive.OutputsFolder = strings.TrimSpace(c.Drive.OutputsFolder)
	if c.Drive.OutputsFolder == "" {
		c.Drive.OutputsFolder = defaults.Drive.OutputsFolder
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = defaults.Cache.MaxEntries
	}
	c.Proxy.Mode = strings.ToLower(strings.TrimSpace(c.Proxy.Mode))
	if c.Proxy.Mode == "" {
		c.Proxy.Mode = defaults.Proxy.Mode
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return ErrMissingListen
	}
	if c.Drive.OutputsFolder == "" {
		return ErrMissingOutputs
	}
	if c.Cache.MaxEntries < 1 {
		return ErrInvalidCacheSize
	}
	switch c.Proxy.Mode {
	case "no-proxy", "system":
	case "basic", "ntlm":
		if c.Proxy.Host == "" {
			return ErrMissingProxyHost
		}
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidProxyMode, c.Proxy.Mode)
	}
	return nil
}

// Save writes the configuration to path as TOML.
// The proxy password is never persisted.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
