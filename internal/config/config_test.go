package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Listen != ":8501" {
		t.Errorf("expected default listen :8501, got %s", cfg.Server.Listen)
	}
	if cfg.Drive.OutputsFolder != "Outputs" {
		t.Errorf("expected default outputs folder Outputs, got %s", cfg.Drive.OutputsFolder)
	}
	if cfg.Cache.MaxEntries != 100 {
		t.Errorf("expected default cache size 100, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Proxy.Mode != "no-proxy" {
		t.Errorf("expected default proxy mode no-proxy, got %s", cfg.Proxy.Mode)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/path/that/does/not/exist/outputs-preview.toml")
	if err != nil {
		t.Fatalf("Load should not fail for non-existent file: %v", err)
	}
	if cfg.Cache.MaxEntries != 100 {
		t.Errorf("expected defaults for non-existent file, got %+v", cfg)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load should return a config, not nil")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs-preview.toml")
	content := "[server]\nlisten = \"127.0.0.1:9000\"\n\n[proxy]\nmode = \"System\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("listen mismatch: got %s", cfg.Server.Listen)
	}
	if cfg.Drive.OutputsFolder != "Outputs" {
		t.Errorf("expected default outputs folder, got %s", cfg.Drive.OutputsFolder)
	}
	if cfg.Cache.MaxEntries != 100 {
		t.Errorf("expected default cache size, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Proxy.Mode != "system" {
		t.Errorf("expected proxy mode to be lowercased, got %s", cfg.Proxy.Mode)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nlisten ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs-preview.toml")

	cfg := Default()
	cfg.Cache.MaxEntries = 25
	cfg.Proxy = Proxy{Mode: "basic", Host: "proxy.corp", Port: 3128, User: "alice", Password: "secret"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("proxy password must not be written to the config file")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Cache.MaxEntries != 25 {
		t.Errorf("MaxEntries mismatch: got %d", loaded.Cache.MaxEntries)
	}
	if loaded.Proxy.Host != "proxy.corp" || loaded.Proxy.Port != 3128 || loaded.Proxy.User != "alice" {
		t.Errorf("proxy mismatch: got %+v", loaded.Proxy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero cache", func(c *Config) { c.Cache.MaxEntries = 0 }, ErrInvalidCacheSize},
		{"bad proxy mode", func(c *Config) { c.Proxy.Mode = "socks" }, ErrInvalidProxyMode},
		{"basic without host", func(c *Config) { c.Proxy.Mode = "basic" }, ErrMissingProxyHost},
		{"ntlm with host", func(c *Config) { c.Proxy.Mode = "ntlm"; c.Proxy.Host = "p" }, nil},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, ErrMissingListen},
		{"empty outputs", func(c *Config) { c.Drive.OutputsFolder = "" }, ErrMissingOutputs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolveSecretsPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvSecretsPath, "/from/env.toml")
		path, source := ResolveSecretsPath("/from/flag.toml")
		if path != "/from/flag.toml" || source != "flag" {
			t.Errorf("got %s (%s)", path, source)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvSecretsPath, "/from/env.toml")
		path, source := ResolveSecretsPath("")
		if path != "/from/env.toml" || source != "environment" {
			t.Errorf("got %s (%s)", path, source)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		t.Setenv(EnvSecretsPath, "")
		dir := t.TempDir()
		t.Chdir(dir)
		if err := os.WriteFile("secrets.toml", []byte(""), 0o600); err != nil {
			t.Fatal(err)
		}
		path, source := ResolveSecretsPath("")
		if path != "secrets.toml" || source != "working-dir" {
			t.Errorf("got %s (%s)", path, source)
		}
	})
}
