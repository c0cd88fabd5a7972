// Package export writes the videos and prompts matched by a search pass to
// a local directory, one subdirectory per prompt folder.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/videogen/outputs-preview/internal/catalog"
	"github.com/videogen/outputs-preview/internal/diskspace"
	"github.com/videogen/outputs-preview/internal/logging"
	"github.com/videogen/outputs-preview/internal/models"
	"github.com/videogen/outputs-preview/internal/progress"
)

// spaceMargin leaves headroom over the reported video sizes.
const spaceMargin = 1.1

// Source streams remote file content. *browse.Browser implements it.
type Source interface {
	Open(ctx context.Context, fileID string) (io.ReadCloser, int64, error)
}

// Options controls an export.
type Options struct {
	Dir       string
	Overwrite bool
}

// Summary counts what an export did.
type Summary struct {
	Written int
	Skipped int
	Renamed int
	Bytes   int64
}

// Exporter writes search results to disk.
type Exporter struct {
	src      Source
	reporter progress.Reporter
	logger   *logging.Logger
}

// New creates an Exporter. A nil reporter disables progress output.
func New(src Source, reporter progress.Reporter, logger *logging.Logger) *Exporter {
	if reporter == nil {
		reporter = progress.NewNoOpProgress()
	}
	return &Exporter{src: src, reporter: reporter, logger: logger}
}

// Export writes DIR/N/<video> for every matched video and DIR/N/N.txt with
// the normalized prompt. Existing files are kept unless opts.Overwrite is set.
// The first failure stops the export; files already written stay in place.
func (e *Exporter) Export(ctx context.Context, result *models.Result, opts Options) (Summary, error) {
	var sum Summary
	if opts.Dir == "" {
		return sum, errors.New("export directory is required")
	}

	if err := diskspace.CheckAvailableSpace(opts.Dir, totalSize(result), spaceMargin); err != nil {
		return sum, err
	}

	for _, section := range result.Sections {
		dir := filepath.Join(opts.Dir, strconv.Itoa(section.FolderNumber))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sum, fmt.Errorf("create %s: %w", dir, err)
		}

		if section.Prompt != "" {
			path := filepath.Join(dir, catalog.PromptFileName(section.FolderNumber))
			wrote, err := e.writePrompt(path, section.Prompt, opts.Overwrite)
			if err != nil {
				return sum, err
			}
			if wrote {
				sum.Written++
			} else {
				sum.Skipped++
			}
		}

		targets := make([]target, 0, len(section.Videos))
		for _, v := range section.Videos {
			targets = append(targets, target{
				FileID:    v.FileID,
				Name:      v.Title,
				LocalPath: filepath.Join(dir, localName(v.Title, v.FileID, ".mp4")),
				Size:      v.Size,
			})
		}
		sum.Renamed += resolveCollisions(targets)

		for _, t := range targets {
			if err := withinDir(t.LocalPath, dir); err != nil {
				return sum, err
			}
			if !opts.Overwrite && exists(t.LocalPath) {
				e.logger.Debug().Str("path", t.LocalPath).Msg("Exists, skipped")
				sum.Skipped++
				continue
			}
			n, err := e.download(ctx, t)
			if err != nil {
				return sum, err
			}
			sum.Written++
			sum.Bytes += n
		}
	}

	e.logger.Info().
		Int("written", sum.Written).
		Int("skipped", sum.Skipped).
		Int64("bytes", sum.Bytes).
		Str("dir", opts.Dir).
		Msg("Export complete")
	return sum, nil
}

func (e *Exporter) writePrompt(path, prompt string, overwrite bool) (bool, error) {
	if !overwrite && exists(path) {
		return false, nil
	}
	if err := writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, prompt+"\n")
		return err
	}); err != nil {
		return false, fmt.Errorf("write prompt %s: %w", path, err)
	}
	return true, nil
}

// download streams t to disk through the progress reporter.
func (e *Exporter) download(ctx context.Context, t target) (int64, error) {
	body, size, err := e.src.Open(ctx, t.FileID)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", t.Name, err)
	}
	defer body.Close()

	if size <= 0 {
		size = t.Size
	}
	if size <= 0 {
		size = -1
	}

	e.reporter.Start(size, t.Name)
	reader := progress.NewReader(body, e.reporter)
	err = writeAtomic(t.LocalPath, func(w io.Writer) error {
		_, err := io.Copy(w, reader)
		return err
	})
	e.reporter.Finish()
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", t.Name, err)
	}
	return reader.BytesRead(), nil
}

// writeAtomic writes path through a temp file in the same directory.
func writeAtomic(path string, fill func(io.Writer) error) error {
	tmp := path + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// totalSize sums the reported sizes of every matched video.
func totalSize(result *models.Result) int64 {
	var n int64
	for _, s := range result.Sections {
		for _, v := range s.Videos {
			if v.Size > 0 {
				n += v.Size
			}
		}
	}
	return n
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
