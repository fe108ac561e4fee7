package cms

import (
	"context"
	"net/url"

	"github.com/crestmont/site-api/models"
)

// PressService exposes the press release collection
type PressService interface {
	List(ctx context.Context, page, pageSize int) ([]models.PressRelease, models.Pagination, error)
	BySlug(ctx context.Context, slug string) (*models.PressRelease, error)
}

type pressService struct {
	requester Requester
	mediaBase string
}

// NewPressService initializes the press release collection client
func NewPressService(r Requester, mediaBase string) PressService {
	return &pressService{requester: r, mediaBase: mediaBase}
}

type rawPress struct {
	ID         flexID    `json:"id"`
	Attributes *rawPress `json:"attributes"`

	Title     string                `json:"title"`
	Slug      string                `json:"slug"`
	Date      string                `json:"date"`
	Content   []models.ContentBlock `json:"content"`
	Thumbnail *rawMedia             `json:"thumbnail"`
}

func (s *pressService) toModel(raw rawPress) models.PressRelease {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	return models.PressRelease{
		ID:        raw.ID.String(),
		Title:     attrs.Title,
		Slug:      attrs.Slug,
		Date:      attrs.Date,
		Content:   attrs.Content,
		Thumbnail: toMediaOrPlaceholder(s.mediaBase, attrs.Thumbnail, "small"),
	}
}

func (s *pressService) fetch(ctx context.Context, q url.Values) ([]models.PressRelease, models.Pagination, error) {
	body, err := s.requester.Get(ctx, "/api/press-releases", q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var raw []rawPress
	pag, err := decodeEnvelope(body, &raw)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.PressRelease, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, pag, nil
}

func (s *pressService) List(ctx context.Context, page, pageSize int) ([]models.PressRelease, models.Pagination, error) {
	q := url.Values{}
	q.Set("sort", "date:desc")
	q.Set("populate", "thumbnail")
	setPagination(q, page, pageSize)
	return s.fetch(ctx, q)
}

func (s *pressService) BySlug(ctx context.Context, slug string) (*models.PressRelease, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	q.Set("populate", "thumbnail")

	releases, _, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, nil
	}
	return &releases[0], nil
}
