package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/videogen/outputs-preview/internal/config"
	"github.com/videogen/outputs-preview/internal/logging"
)

// TestProxyFuncWithBypass_EmptyNoProxy verifies that an empty noProxy always routes through proxy.
func TestProxyFuncWithBypass_EmptyNoProxy(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "", logging.NewNopLogger())

	req, _ := http.NewRequest("GET", "https://api.example.com/data", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected proxy URL, got nil (direct)")
	}
	if result.Host != "proxy.corp:8080" {
		t.Errorf("expected proxy host proxy.corp:8080, got %s", result.Host)
	}
}

// TestProxyFuncWithBypass_WildcardDomain verifies *.example.com bypasses api.example.com.
func TestProxyFuncWithBypass_WildcardDomain(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "*.example.com", logging.NewNopLogger())

	// Subdomain should bypass proxy
	req, _ := http.NewRequest("GET", "https://api.example.com/data", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil (bypass) for api.example.com, got %v", result)
	}
}

// TestProxyFuncWithBypass_ExactDomain verifies example.com bypasses root and subdomains.
func TestProxyFuncWithBypass_ExactDomain(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "example.com", logging.NewNopLogger())

	// Root domain should bypass
	req, _ := http.NewRequest("GET", "https://example.com/data", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil (bypass) for example.com, got %v", result)
	}

	// Subdomain should also bypass (httpproxy matches subdomains of a domain given without a leading dot)
	req2, _ := http.NewRequest("GET", "https://api.example.com/data", nil)
	result2, err := proxyFunc(req2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result2 != nil {
		t.Errorf("expected nil (bypass) for api.example.com, got %v", result2)
	}
}

// TestProxyFuncWithBypass_CIDR verifies IP/CIDR range matching.
func TestProxyFuncWithBypass_CIDR(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "10.0.0.0/8", logging.NewNopLogger())

	// IP in range should bypass
	req, _ := http.NewRequest("GET", "http://10.1.2.3:8080/api", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil (bypass) for 10.1.2.3, got %v", result)
	}
}

// TestProxyFuncWithBypass_NonMatchingHost verifies non-matching hosts route through proxy.
func TestProxyFuncWithBypass_NonMatchingHost(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "*.internal.corp,10.0.0.0/8", logging.NewNopLogger())

	// External host should use proxy
	req, _ := http.NewRequest("GET", "https://www.googleapis.com/drive/v3/files", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected proxy URL for www.googleapis.com, got nil (direct)")
	}
	if result.Host != "proxy.corp:8080" {
		t.Errorf("expected proxy host proxy.corp:8080, got %s", result.Host)
	}
}

// TestProxyFuncWithBypass_MultiplePatterns verifies comma-separated patterns work.
func TestProxyFuncWithBypass_MultiplePatterns(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "*.example.com, 192.168.0.0/16, internal.corp", logging.NewNopLogger())

	tests := []struct {
		name       string
		url        string
		wantBypass bool
	}{
		{"wildcard match", "https://api.example.com/data", true},
		{"cidr match", "http://192.168.1.100/api", true},
		{"exact domain match", "https://internal.corp/status", true},
		{"non-match", "https://www.googleapis.com/drive/v3/files", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.url, nil)
			result, err := proxyFunc(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantBypass && result != nil {
				t.Errorf("expected bypass (nil) for %s, got %v", tt.url, result)
			}
			if !tt.wantBypass && result == nil {
				t.Errorf("expected proxy for %s, got nil (bypass)", tt.url)
			}
		})
	}
}

func TestBuildProxyURL(t *testing.T) {
	tests := []struct {
		name     string
		proxy    config.Proxy
		wantHost string
		wantUser bool
	}{
		{"default port", config.Proxy{Host: "proxy.corp"}, "proxy.corp:8080", false},
		{"explicit port", config.Proxy{Host: "proxy.corp", Port: 3128}, "proxy.corp:3128", false},
		{"user without password", config.Proxy{Host: "p", User: "alice"}, "p:8080", false},
		{"user and password", config.Proxy{Host: "p", User: "alice", Password: "pw"}, "p:8080", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := buildProxyURL(tt.proxy)
			if u.Host != tt.wantHost {
				t.Errorf("expected host %s, got %s", tt.wantHost, u.Host)
			}
			if (u.User != nil) != tt.wantUser {
				t.Errorf("expected credentials embedded=%v, got %v", tt.wantUser, u.User)
			}
		})
	}
}

func TestConfigureHTTPClient_Modes(t *testing.T) {
	logger := logging.NewNopLogger()

	if _, err := ConfigureHTTPClient(config.Proxy{Mode: "no-proxy"}, logger); err != nil {
		t.Errorf("no-proxy: unexpected error: %v", err)
	}
	if _, err := ConfigureHTTPClient(config.Proxy{Mode: "system"}, logger); err != nil {
		t.Errorf("system: unexpected error: %v", err)
	}
	if _, err := ConfigureHTTPClient(config.Proxy{Mode: "basic"}, logger); err != nil {
		t.Errorf("basic without host should fall back to direct, got: %v", err)
	}
	if _, err := ConfigureHTTPClient(config.Proxy{Mode: "socks5"}, logger); err == nil {
		t.Error("expected error for unsupported proxy mode")
	}
}

func TestCreateOptimizedClient_NoTimeout(t *testing.T) {
	client, err := CreateOptimizedClient(config.Proxy{Mode: "no-proxy"}, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Timeout != 0 {
		t.Errorf("expected no client timeout, got %v", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Errorf("expected *http.Transport, got %T", client.Transport)
	}
}
