package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/videogen/outputs-preview/internal/browse"
	"github.com/videogen/outputs-preview/internal/cache"
	"github.com/videogen/outputs-preview/internal/config"
	"github.com/videogen/outputs-preview/internal/credentials"
	"github.com/videogen/outputs-preview/internal/drive"
	inthttp "github.com/videogen/outputs-preview/internal/http"
)

// loadConfig resolves and loads the config file named by --config,
// PREVIEW_CONFIG or the default locations.
func loadConfig() (*config.Config, error) {
	path, source := config.ResolveConfigPath(cfgFile)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	GetLogger().Debug().Str("path", path).Str("source", source).Msg("Loaded configuration")
	return cfg, nil
}

// openBrowser performs the one-time setup shared by serve, search and export:
// read the secrets file, authenticate, and resolve the Outputs folder.
// Every failure here is fatal for the command.
func openBrowser(ctx context.Context, cfg *config.Config) (*browse.Browser, error) {
	log := GetLogger()

	secretsPath, source := config.ResolveSecretsPath(secretsFile)
	log.Debug().Str("path", secretsPath).Str("source", source).Msg("Using secrets file")

	keyJSON, err := credentials.LoadServiceAccount(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run wrap-credentials first or pass --secrets)", err)
	}

	if err := promptProxyPassword(&cfg.Proxy); err != nil {
		return nil, err
	}

	httpClient, err := inthttp.CreateOptimizedClient(cfg.Proxy, log)
	if err != nil {
		return nil, fmt.Errorf("configure HTTP client: %w", err)
	}

	client, err := drive.Authenticate(ctx, keyJSON, httpClient, log)
	if err != nil {
		return nil, err
	}

	byteCache, err := cache.New(cfg.Cache.MaxEntries)
	if err != nil {
		return nil, err
	}

	browser, err := browse.NewBrowser(ctx, client, byteCache, cfg.Drive.OutputsFolder, log)
	if err != nil {
		return nil, withSharingHint(err, cfg.Drive.OutputsFolder)
	}
	return browser, nil
}

// withSharingHint adds a hint to errors that usually mean the folder was not
// shared with the service account.
func withSharingHint(err error, folder string) error {
	if drive.IsPermissionError(err) || errors.Is(err, browse.ErrOutputsNotFound) {
		return fmt.Errorf("%w (share the %q folder with the service account's client_email)", err, folder)
	}
	return err
}
