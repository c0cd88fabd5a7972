package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// target is one file to be written by an export.
type target struct {
	FileID    string
	Name      string // name as listed in Drive
	LocalPath string
	Size      int64
}

var unsafeNameChars = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// localName turns a Drive file name into a single path element.
// Drive allows separators in names; they are replaced so a name can never
// leave its folder. Names that are empty or dot-only fall back to the file ID.
func localName(name, fileID, ext string) string {
	clean := strings.TrimSpace(unsafeNameChars.Replace(name))
	if clean == "" || strings.Trim(clean, ".") == "" {
		return fileID + ext
	}
	return clean
}

// withinDir reports an error if path resolves outside dir.
func withinDir(path, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve export directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve export path: %w", err)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return fmt.Errorf("compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes export directory: %s (base: %s)", path, dir)
	}
	return nil
}

// resolveCollisions makes every LocalPath unique. Drive allows two files with
// the same name in one folder; each colliding file gets its ID inserted
// before the extension ("clip.mp4" becomes "clip_1AbC.mp4").
// Returns how many files were renamed.
func resolveCollisions(targets []target) int {
	byPath := make(map[string][]int)
	for i, t := range targets {
		byPath[t.LocalPath] = append(byPath[t.LocalPath], i)
	}

	renamed := 0
	for path, idx := range byPath {
		if len(idx) < 2 {
			continue
		}
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(path, ext)
		for _, i := range idx {
			targets[i].LocalPath = fmt.Sprintf("%s_%s%s", base, targets[i].FileID, ext)
			renamed++
		}
	}
	return renamed
}
