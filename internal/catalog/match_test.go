package catalog

import (
	"testing"

	"github.com/videogen/outputs-preview/internal/models"
)

func TestPromptFileName(t *testing.T) {
	for _, n := range []int{10001, 10003, 10050} {
		files := []models.RemoteFile{
			{ID: "a", Name: "prompt.txt"},
			{ID: "b", Name: PromptFileName(n) + ".bak"},
			{ID: "c", Name: PromptFileName(n)},
			{ID: "d", Name: PromptFileName(n)},
		}
		f, ok := FindPrompt(n, files)
		if !ok || f.ID != "c" {
			t.Errorf("folder %d: expected first exact match c, got %+v (ok=%v)", n, f, ok)
		}
	}

	if PromptFileName(10003) != "10003.txt" {
		t.Errorf("unexpected prompt name %q", PromptFileName(10003))
	}

	if _, ok := FindPrompt(10003, []models.RemoteFile{{ID: "x", Name: "10003.TXT"}}); ok {
		t.Error("prompt name match must be exact")
	}
}

func TestIsVideo(t *testing.T) {
	tests := map[string]bool{
		"10001_Kling AI.mp4": true,
		"clip.MP4":           true,
		"clip.Mp4":           true,
		"clip.mov":           false,
		"10001.txt":          false,
		"mp4":                false,
	}
	for name, want := range tests {
		if got := IsVideo(name); got != want {
			t.Errorf("IsVideo(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtractSuffix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"10002_Runway_Gen-4.mp4", "Runway_Gen-4"},
		{"10002_Kling AI.mp4", "Kling AI"},
		{"10002klingai.mp4", "klingai"},
		{"10002Kling AI.MP4", "Kling AI"},
		{"_Google Veo 3.mp4", "Google Veo 3"},
		{"clip.mp4", "clip"},
		{"10002.mp4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSuffix(tt.name); got != tt.want {
				t.Errorf("ExtractSuffix(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDeriveVideos(t *testing.T) {
	files := []models.RemoteFile{
		{ID: "1", Name: "10003.txt"},
		{ID: "2", Name: "10003_Kling_AI.mp4"},
		{ID: "3", Name: "10003_runwaygen-4.mp4"},
		{ID: "4", Name: "10003_Google Veo 3.MP4"},
		{ID: "5", Name: "10003Luma Labs Ray-2.mp4"},
		{ID: "6", Name: "10003_Kling AI.mov"},
		{ID: "7", Name: "10003__Kling AI.mp4"},
	}

	got := DeriveVideos(files)
	want := []models.MatchedVideo{
		{FileID: "2", Title: "10003_Kling_AI.mp4", Model: "Kling AI"},
		{FileID: "4", Title: "10003_Google Veo 3.MP4", Model: "Google Veo 3"},
		{FileID: "5", Title: "10003Luma Labs Ray-2.mp4", Model: "Luma Labs Ray-2"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d videos, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("video %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFilterBySelection(t *testing.T) {
	derived := DeriveVideos([]models.RemoteFile{
		{ID: "1", Name: "10001_Kling AI.mp4"},
		{ID: "2", Name: "10001_Runway Gen-4.mp4"},
		{ID: "3", Name: "10001_Google Veo 3.mp4"},
	})

	only := FilterBySelection(derived, []string{"Kling AI"})
	if len(only) != 1 || only[0].FileID != "1" {
		t.Errorf("expected only Kling AI, got %+v", only)
	}

	two := FilterBySelection(derived, []string{"Google Veo 3", "Runway Gen-4"})
	if len(two) != 2 || two[0].FileID != "2" || two[1].FileID != "3" {
		t.Errorf("expected listing order preserved, got %+v", two)
	}

	if len(derived) != 3 {
		t.Error("filtering must not change the derived list")
	}

	if none := FilterBySelection(derived, nil); len(none) != 0 {
		t.Errorf("expected nothing for empty selection, got %+v", none)
	}
}
