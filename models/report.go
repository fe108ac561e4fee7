package models

// Report holds the canonical shape of a CMS report entry (annual reports,
// financial statements and the like)
type Report struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   []ContentBlock `json:"description"`
	Type          string         `json:"type,omitempty"`
	DatePublished string         `json:"datePublished,omitempty"`
	File          *Media         `json:"file,omitempty"`
}
