package models

// ContentBlock is one paragraph-level node of CMS rich text
type ContentBlock struct {
	Type     string     `json:"type"`
	Children []TextNode `json:"children"`
}

// TextNode is a leaf of CMS rich text
type TextNode struct {
	Text string `json:"text"`
}

// Tag groups notices under a slugged label
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Notice holds the canonical shape of a CMS notice/update entry
type Notice struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Date        string         `json:"date,omitempty"`
	Content     []ContentBlock `json:"content"`
	Thumbnail   *Media         `json:"thumbnail,omitempty"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Tags        *Tag           `json:"tags,omitempty"`
	IsFeatured  bool           `json:"is_featured"`
	Priority    int            `json:"priority,omitempty"`
	PinnedUntil string         `json:"pinned_until,omitempty"`
}
