package catalog

import (
	"strconv"
	"strings"

	"github.com/videogen/outputs-preview/internal/models"
)

const videoExt = ".mp4"

// PromptFileName returns the prompt file name for folder n, e.g. "10003.txt".
func PromptFileName(n int) string {
	return strconv.Itoa(n) + ".txt"
}

// FindPrompt returns the first file named exactly PromptFileName(n).
func FindPrompt(n int, files []models.RemoteFile) (models.RemoteFile, bool) {
	name := PromptFileName(n)
	for _, f := range files {
		if f.Name == name {
			return f, true
		}
	}
	return models.RemoteFile{}, false
}

// IsVideo reports whether name ends in ".mp4", ignoring case.
func IsVideo(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), videoExt)
}

// ExtractSuffix returns the model token of a video file name.
//
// The extension is removed first. If the rest contains an underscore the
// token is everything after the first one ("10002_Runway_Gen-4.mp4" gives
// "Runway_Gen-4"). Otherwise leading digits and underscores are stripped
// ("10002klingai.mp4" gives "klingai"); a name with neither is returned whole.
func ExtractSuffix(name string) string {
	raw := name
	if len(raw) >= len(videoExt) {
		raw = raw[:len(raw)-len(videoExt)]
	}
	if _, after, found := strings.Cut(raw, "_"); found {
		return after
	}
	return strings.TrimLeft(raw, "0123456789_")
}

// DeriveVideos returns every video in files whose suffix resolves to a known
// model, in listing order. It does not look at any selection.
func DeriveVideos(files []models.RemoteFile) []models.MatchedVideo {
	var out []models.MatchedVideo
	for _, f := range files {
		if !IsVideo(f.Name) {
			continue
		}
		model, ok := CanonicalModel(ExtractSuffix(f.Name))
		if !ok {
			continue
		}
		out = append(out, models.MatchedVideo{
			FileID: f.ID,
			Title:  f.Name,
			Model:  model,
			Size:   f.Size,
		})
	}
	return out
}

// FilterBySelection keeps the videos whose model is in selected.
func FilterBySelection(videos []models.MatchedVideo, selected []string) []models.MatchedVideo {
	keep := make(map[string]bool, len(selected))
	for _, m := range selected {
		keep[m] = true
	}
	var out []models.MatchedVideo
	for _, v := range videos {
		if keep[v.Model] {
			out = append(out, v)
		}
	}
	return out
}
