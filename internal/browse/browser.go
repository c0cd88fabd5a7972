// Package browse runs search passes over the Outputs folder: it resolves
// prompt folders, matches video file names to models and fetches content
// through the shared byte cache.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/videogen/outputs-preview/internal/cache"
	"github.com/videogen/outputs-preview/internal/catalog"
	"github.com/videogen/outputs-preview/internal/drive"
	"github.com/videogen/outputs-preview/internal/logging"
	"github.com/videogen/outputs-preview/internal/models"
)

var (
	// ErrOutputsNotFound is returned when no folder with the configured
	// Outputs name exists. The browser cannot start without it.
	ErrOutputsNotFound = errors.New("could not find the outputs folder")

	// ErrUnknownMedia is returned by Media for file IDs no pass has matched.
	ErrUnknownMedia = errors.New("media not found")
)

// Storage is the read-only view of the remote store used by a Browser.
// *drive.Client implements it.
type Storage interface {
	FindFolders(ctx context.Context, name, parentID string) ([]models.FolderRef, error)
	ListChildren(ctx context.Context, folderID string) ([]models.RemoteFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, int64, error)
}

var _ Storage = (*drive.Client)(nil)

// Options controls what a pass fetches besides folder listings.
type Options struct {
	// PrefetchVideos downloads every matched video into the cache during the
	// pass so the page can play them straight away.
	PrefetchVideos bool
}

// Browser holds the state shared by every pass: the storage handle, the
// resolved Outputs folder and the byte cache. Safe for concurrent use.
type Browser struct {
	store     Storage
	cache     *cache.Bytes
	outputs   models.FolderRef
	logger    *logging.Logger
	mediaMu   sync.RWMutex
	mediaSeen map[string]models.MatchedVideo
}

// NewBrowser resolves the Outputs folder by name and returns a Browser
// rooted at it. If several folders share the name the latest modified wins.
func NewBrowser(ctx context.Context, store Storage, byteCache *cache.Bytes, outputsName string, logger *logging.Logger) (*Browser, error) {
	folders, err := store.FindFolders(ctx, outputsName, "")
	if err != nil {
		return nil, fmt.Errorf("resolve %s folder: %w", outputsName, err)
	}
	outputs, ok := drive.Latest(folders)
	if !ok {
		return nil, fmt.Errorf("%w: no folder named %q", ErrOutputsNotFound, outputsName)
	}

	logger.Info().
		Str("folder", outputs.Name).
		Str("id", outputs.ID).
		Int("candidates", len(folders)).
		Msg("Resolved outputs folder")

	return &Browser{
		store:     store,
		cache:     byteCache,
		outputs:   outputs,
		logger:    logger,
		mediaSeen: make(map[string]models.MatchedVideo),
	}, nil
}

// Outputs returns the resolved Outputs folder.
func (b *Browser) Outputs() models.FolderRef {
	return b.outputs
}

// CacheStats returns the byte cache counters.
func (b *Browser) CacheStats() cache.Stats {
	return b.cache.Stats()
}

// Search runs one pass for sel. An invalid selection is rejected before any
// remote call. A remote failure aborts the pass.
func (b *Browser) Search(ctx context.Context, sel models.Selection, opts Options) (*models.Result, error) {
	if err := catalog.ValidateSelection(sel.Categories, sel.Models); err != nil {
		return nil, err
	}

	result := &models.Result{
		PassID: uuid.NewString(),
		Selection: models.Selection{
			Categories: catalog.OrderedCategories(sel.Categories),
			Models:     append([]string(nil), sel.Models...),
		},
	}
	logger := b.logger.WithFields(func(c zerolog.Context) zerolog.Context {
		return c.Str("pass_id", result.PassID)
	})
	start := time.Now()

	folders := catalog.FolderNumbers(sel.Categories)
	logger.Debug().Int("folders", len(folders)).Strs("models", sel.Models).Msg("Search started")

	for _, n := range folders {
		section, ok, err := b.section(ctx, n, sel.Models, opts)
		if err != nil {
			logger.Error().Err(err).Int("folder", n).Msg("Search aborted")
			return nil, err
		}
		if ok {
			result.Sections = append(result.Sections, section)
		}
	}
	result.NoResults = len(result.Sections) == 0

	logger.Info().
		Int("sections", len(result.Sections)).
		Dur("duration", time.Since(start)).
		Msg("Search complete")
	return result, nil
}

// section builds the block for folder n. ok is false when the folder is
// missing or has no video for the selected models.
func (b *Browser) section(ctx context.Context, n int, selected []string, opts Options) (models.Section, bool, error) {
	name := strconv.Itoa(n)
	matches, err := b.store.FindFolders(ctx, name, b.outputs.ID)
	if err != nil {
		return models.Section{}, false, fmt.Errorf("folder %d: %w", n, err)
	}
	folder, ok := drive.Latest(matches)
	if !ok {
		b.logger.Debug().Int("folder", n).Msg("Folder missing, skipped")
		return models.Section{}, false, nil
	}

	files, err := b.store.ListChildren(ctx, folder.ID)
	if drive.IsNotFound(err) {
		// Removed between lookup and listing.
		b.logger.Debug().Int("folder", n).Msg("Folder vanished, skipped")
		return models.Section{}, false, nil
	}
	if err != nil {
		return models.Section{}, false, fmt.Errorf("folder %d: %w", n, err)
	}

	videos := catalog.FilterBySelection(catalog.DeriveVideos(files), selected)
	if len(videos) == 0 {
		return models.Section{}, false, nil
	}

	section := models.Section{FolderNumber: n, Videos: videos}
	if pf, ok := catalog.FindPrompt(n, files); ok {
		data, err := b.cache.GetOrFetch(ctx, pf.ID, b.store.Download)
		if err != nil {
			return models.Section{}, false, fmt.Errorf("folder %d prompt: %w", n, err)
		}
		section.Prompt = catalog.NormalizePrompt(data)
	}

	b.mediaMu.Lock()
	for _, v := range videos {
		b.mediaSeen[v.FileID] = v
	}
	b.mediaMu.Unlock()

	if opts.PrefetchVideos {
		for _, v := range videos {
			if _, err := b.cache.GetOrFetch(ctx, v.FileID, b.store.Download); err != nil {
				return models.Section{}, false, fmt.Errorf("folder %d video %s: %w", n, v.Title, err)
			}
		}
	}
	return section, true, nil
}

// Media returns the bytes of a video matched by an earlier pass, from the
// cache when possible.
func (b *Browser) Media(ctx context.Context, fileID string) (models.MatchedVideo, []byte, error) {
	b.mediaMu.RLock()
	video, ok := b.mediaSeen[fileID]
	b.mediaMu.RUnlock()
	if !ok {
		return models.MatchedVideo{}, nil, fmt.Errorf("%w: %s", ErrUnknownMedia, fileID)
	}

	data, err := b.cache.GetOrFetch(ctx, fileID, b.store.Download)
	if err != nil {
		return models.MatchedVideo{}, nil, err
	}
	return video, data, nil
}

// Open streams a file without caching it. Used for exports.
func (b *Browser) Open(ctx context.Context, fileID string) (io.ReadCloser, int64, error) {
	return b.store.Open(ctx, fileID)
}
