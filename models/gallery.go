package models

// Gallery holds the canonical shape of a CMS gallery entry
type Gallery struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Date   string  `json:"date,omitempty"`
	Images []Media `json:"images"`
}
