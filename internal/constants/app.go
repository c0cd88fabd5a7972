package constants

import (
	"time"
)

// Drive lookup settings
const (
	// OutputsFolderName - name of the top-level folder holding per-prompt subfolders.
	// The folder is mandatory; the browser refuses to start without it.
	OutputsFolderName = "Outputs"

	// FolderMimeType - Drive MIME type for folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DriveReadonlyScope - the only OAuth scope requested by the service account
	DriveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"

	// ListPageSize - page size for files.list calls (Drive maximum is 1000)
	ListPageSize = 1000
)

// Credential file layout
const (
	// ServiceAccountKey - top-level TOML table holding the wrapped service-account document
	ServiceAccountKey = "gcp_service_account"

	// DefaultCredentialSource - JSON key downloaded from the cloud console
	DefaultCredentialSource = "service-account.json"

	// DefaultSecretsFile - wrapped TOML secrets written by wrap-credentials
	DefaultSecretsFile = "secrets.toml"

	// DefaultConfigFile - optional application config file
	DefaultConfigFile = "outputs-preview.toml"
)

// Cache sizing
const (
	// DefaultCacheEntries - maximum number of downloaded files kept in memory.
	// Videos and prompt text share the same cache.
	DefaultCacheEntries = 100
)

// Web server
const (
	// DefaultListenAddr - address the preview page is served on
	DefaultListenAddr = ":8501"

	// ServerReadHeaderTimeout - time allowed to read request headers
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerIdleTimeout - keep-alive idle timeout
	ServerIdleTimeout = 60 * time.Second

	// ServerShutdownTimeout - grace period for in-flight requests on shutdown
	ServerShutdownTimeout = 10 * time.Second
)

// HTTP transport timeouts
const (
	// HTTPDialTimeout - TCP connect timeout
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - TCP keep-alive period
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long idle pooled connections stay open
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake timeout
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPExpectContinueTimeout - wait for 100-continue
	HTTPExpectContinueTimeout = 1 * time.Second

	// ProxyWarmupTimeout - timeout of the optional proxy warmup request
	ProxyWarmupTimeout = 15 * time.Second
)
