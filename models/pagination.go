package models

// Pagination mirrors the CMS pagination meta block
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta is the meta portion of a CMS list envelope
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}
