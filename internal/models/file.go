// Package models holds the values passed between the Drive client, the
// browser and the presentation layers.
package models

import "time"

// FolderRef is a folder returned by a name lookup
type FolderRef struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ModifiedTime time.Time `json:"modifiedTime"` // zero when Drive returned an unparsable value
}

// RemoteFile is a direct child of a resolved folder
type RemoteFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// MatchedVideo is a video whose file name resolved to a known model
type MatchedVideo struct {
	FileID string `json:"fileId"`
	Title  string `json:"title"` // file name as stored in Drive
	Model  string `json:"model"` // canonical model name
	Size   int64  `json:"size,omitempty"`
}

// Selection is the set of categories and models chosen for one pass
type Selection struct {
	Categories []string `json:"categories"`
	Models     []string `json:"models"`
}

// Section is one rendered folder: a heading, its videos and the shared prompt
type Section struct {
	FolderNumber int            `json:"folderNumber"`
	Prompt       string         `json:"prompt,omitempty"` // empty means no prompt file or blank text
	Videos       []MatchedVideo `json:"videos"`
}

// Result is the outcome of one search pass
type Result struct {
	PassID    string    `json:"passId"`
	Selection Selection `json:"selection"`
	Sections  []Section `json:"sections"`
	NoResults bool      `json:"noResults"`
}
