package models

// BoardMember holds the canonical shape of a CMS board member entry
type BoardMember struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Role     string         `json:"role,omitempty"`
	Bio      []ContentBlock `json:"bio,omitempty"`
	Photo    *Media         `json:"photo,omitempty"`
	Ordering int            `json:"ordering,omitempty"`
}
