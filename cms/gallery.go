package cms

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/crestmont/site-api/models"
)

// GalleryService exposes the photo gallery collection
type GalleryService interface {
	List(ctx context.Context, page, pageSize int) ([]models.Gallery, models.Pagination, error)
}

type galleryService struct {
	requester Requester
	mediaBase string
}

// NewGalleryService initializes the gallery collection client
func NewGalleryService(r Requester, mediaBase string) GalleryService {
	return &galleryService{requester: r, mediaBase: mediaBase}
}

type rawGallery struct {
	ID         flexID     `json:"id"`
	Attributes *rawGallery `json:"attributes"`

	Title  string          `json:"title"`
	Date   string          `json:"date"`
	Images json.RawMessage `json:"images"`
}

func (s *galleryService) toModel(raw rawGallery) models.Gallery {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	g := models.Gallery{
		ID:    raw.ID.String(),
		Title: attrs.Title,
		Date:  attrs.Date,
	}
	g.Images = s.images(attrs.Images)
	return g
}

// images accepts both a bare media array and the {"data": [...]} relation
// wrapper
func (s *galleryService) images(raw json.RawMessage) []models.Media {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var list []rawMedia
	if err := json.Unmarshal(raw, &list); err != nil {
		var wrapper struct {
			Data []rawMedia `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil
		}
		list = wrapper.Data
	}
	out := make([]models.Media, 0, len(list))
	for i := range list {
		if m := toMedia(s.mediaBase, &list[i], "medium"); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func (s *galleryService) List(ctx context.Context, page, pageSize int) ([]models.Gallery, models.Pagination, error) {
	q := url.Values{}
	q.Set("sort", "date:desc")
	q.Set("populate", "images")
	setPagination(q, page, pageSize)

	body, err := s.requester.Get(ctx, "/api/galleries", q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var raw []rawGallery
	pag, err := decodeEnvelope(body, &raw)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.Gallery, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, pag, nil
}
