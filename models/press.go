package models

// PressRelease holds the canonical shape of a CMS press release entry
type PressRelease struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Date      string         `json:"date,omitempty"`
	Content   []ContentBlock `json:"content"`
	Thumbnail *Media         `json:"thumbnail,omitempty"`
}
