package models

// Announcement holds the canonical shape of a CMS announcement entry
type Announcement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CTAText   string `json:"ctaText,omitempty"`
	CTALink   string `json:"ctaLink,omitempty"`
	Image     *Media `json:"image,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// PresentationResponse is the envelope returned to a browser session asking
// which announcements it still has to show
type PresentationResponse struct {
	Present       bool           `json:"present"`
	Fingerprint   string         `json:"fingerprint"`
	Index         int            `json:"index"`
	Announcements []Announcement `json:"announcements"`
}

// AdvanceResponse reports the session's position after stepping the queue
type AdvanceResponse struct {
	Index int  `json:"index"`
	Done  bool `json:"done"`
}

// CreateAnnouncementRequest is the admin payload for creating an announcement
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required|minLen:1"`
	Message string `json:"message" validate:"required|minLen:1"`
	CTAText string `json:"ctaText"`
	CTALink string `json:"ctaLink" validate:"url" message:"url:ctaLink must be a valid URL"`
	Active  bool   `json:"active"`
}

// UpdateAnnouncementRequest carries optional fields for a partial update;
// nil means "leave unchanged"
type UpdateAnnouncementRequest struct {
	Title   *string `json:"title,omitempty"`
	Message *string `json:"message,omitempty"`
	CTAText *string `json:"ctaText,omitempty"`
	CTALink *string `json:"ctaLink,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}
