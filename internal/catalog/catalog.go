// Package catalog holds the fixed category and model tables and the rules
// that map Drive file names onto them.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a label covering consecutive prompt folder numbers.
type Category struct {
	Name    string
	Folders []int
}

var (
	// ErrEmptySelection is returned when a search names no category or no model.
	ErrEmptySelection = errors.New("you must select at least one category and one model")

	// ErrUnknownCategory is returned for a category name not in the table.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownModel is returned for a model name not in the table.
	ErrUnknownModel = errors.New("unknown model")
)

// categories is in display order. Each range holds five folders.
var categories = []Category{
	{Name: "Causal Reasoning", Folders: folderRange(10001)},
	{Name: "Object Interaction", Folders: folderRange(10006)},
	{Name: "Human Actions / Gestures", Folders: folderRange(10011)},
	{Name: "Animal Behavior", Folders: folderRange(10016)},
	{Name: "Scene Changes / Environment", Folders: folderRange(10021)},
	{Name: "Tool/Instrument Use", Folders: folderRange(10026)},
	{Name: "Emotive/Facial Expressions", Folders: folderRange(10031)},
	{Name: "Abstract / Conceptual", Folders: folderRange(10036)},
	{Name: "Macro / Micro", Folders: folderRange(10041)},
	{Name: "Complex Multi-Agent", Folders: folderRange(10046)},
}

var modelNames = []string{
	"Luma Labs Ray-2",
	"Runway Gen-4",
	"Kling AI",
	"Google Veo 3",
	"ByteDance Seedance",
}

// normalizedModels maps lowercase model names to their canonical form.
var normalizedModels = func() map[string]string {
	m := make(map[string]string, len(modelNames))
	for _, name := range modelNames {
		m[strings.ToLower(name)] = name
	}
	return m
}()

func folderRange(first int) []int {
	out := make([]int, 5)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// Categories returns a copy of the category table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Folders: append([]int(nil), c.Folders...)}
	}
	return out
}

// CategoryNames returns the category labels in display order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Models returns the canonical model names in display order.
func Models() []string {
	return append([]string(nil), modelNames...)
}

// CanonicalModel resolves a file-name suffix to a canonical model name.
// The suffix is lowercased and trimmed before lookup. Names that only match
// once underscores are read as spaces ("Kling_AI") are accepted too.
func CanonicalModel(suffix string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(suffix))
	if name, ok := normalizedModels[key]; ok {
		return name, true
	}
	if strings.Contains(key, "_") {
		name, ok := normalizedModels[strings.ReplaceAll(key, "_", " ")]
		return name, ok
	}
	return "", false
}

// ValidateSelection checks that both lists are non-empty and every name is known.
func ValidateSelection(cats, mdls []string) error {
	if len(cats) == 0 || len(mdls) == 0 {
		return ErrEmptySelection
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
	}
	for _, c := range cats {
		if !known[c] {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
	}
	for _, m := range mdls {
		if !containsString(modelNames, m) {
			return fmt.Errorf("%w: %q", ErrUnknownModel, m)
		}
	}
	return nil
}

// FolderNumbers flattens the selected categories into folder numbers.
// Categories are visited in table order, whatever order they were chosen in.
func FolderNumbers(selected []string) []int {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	var out []int
	for _, c := range categories {
		if want[c.Name] {
			out = append(out, c.Folders...)
		}
	}
	return out
}

// OrderedCategories returns the selected categories sorted into table order.
func OrderedCategories(selected []string) []string {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	var out []string
	for _, c := range categories {
		if want[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
