package models

// Media is a resolved CMS upload. URL is always absolute by the time a
// handler sees it; relative upload paths are resolved at the cms boundary.
type Media struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Mime            string `json:"mime,omitempty"`
	Size            int64  `json:"size,omitempty"`
	Name            string `json:"name,omitempty"`
}

// Attachment is a labelled file hanging off a notice or report
type Attachment struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  *Media `json:"file,omitempty"`
}
