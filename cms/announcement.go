package cms

import (
	"context"
	"net/url"
	"strconv"

	"github.com/crestmont/site-api/models"
)

// AnnouncementService exposes the announcement collection. Reads use the
// service token; writes require the admin's own CMS token.
type AnnouncementService interface {
	Active(ctx context.Context) ([]models.Announcement, error)
	All(ctx context.Context, token string, page, pageSize int) ([]models.Announcement, models.Pagination, error)
	Get(ctx context.Context, token, id string) (*models.Announcement, error)
	Create(ctx context.Context, token string, req models.CreateAnnouncementRequest) (*models.Announcement, error)
	Update(ctx context.Context, token, id string, req models.UpdateAnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, token, id string) error
}

type announcementService struct {
	requester Requester
	mediaBase string
}

// NewAnnouncementService initializes the announcement collection client
func NewAnnouncementService(r Requester, mediaBase string) AnnouncementService {
	return &announcementService{requester: r, mediaBase: mediaBase}
}

type rawAnnouncement struct {
	ID         flexID           `json:"id"`
	Attributes *rawAnnouncement `json:"attributes"`

	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CTAText   string    `json:"ctaText"`
	CTALink   string    `json:"ctaLink"`
	Image     *rawMedia `json:"image"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"createdAt"`
}

func (s *announcementService) toModel(raw rawAnnouncement) models.Announcement {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	return models.Announcement{
		ID:        raw.ID.String(),
		Title:     attrs.Title,
		Message:   attrs.Message,
		CTAText:   attrs.CTAText,
		CTALink:   attrs.CTALink,
		Image:     toMedia(s.mediaBase, attrs.Image, "medium"),
		Active:    attrs.Active,
		CreatedAt: attrs.CreatedAt,
	}
}

func (s *announcementService) Active(ctx context.Context) ([]models.Announcement, error) {
	q := url.Values{}
	q.Set("filters[active][$eq]", "true")
	q.Set("sort", "createdAt:desc")
	q.Set("populate", "image")

	body, err := s.requester.Get(ctx, "/api/announcements", q)
	if err != nil {
		return nil, err
	}
	var raw []rawAnnouncement
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Announcement, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, nil
}

func (s *announcementService) All(ctx context.Context, token string, page, pageSize int) ([]models.Announcement, models.Pagination, error) {
	q := url.Values{}
	q.Set("sort", "createdAt:desc")
	q.Set("populate", "image")
	setPagination(q, page, pageSize)

	body, err := s.requester.GetWithToken(ctx, "/api/announcements", token, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var raw []rawAnnouncement
	pag, err := decodeEnvelope(body, &raw)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.Announcement, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, pag, nil
}

func (s *announcementService) Get(ctx context.Context, token, id string) (*models.Announcement, error) {
	q := url.Values{}
	q.Set("populate", "image")
	body, err := s.requester.GetWithToken(ctx, "/api/announcements/"+url.PathEscape(id), token, q)
	if err != nil {
		return nil, err
	}
	var raw rawAnnouncement
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	m := s.toModel(raw)
	return &m, nil
}

func (s *announcementService) Create(ctx context.Context, token string, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	payload := map[string]interface{}{"data": map[string]interface{}{
		"title":   req.Title,
		"message": req.Message,
		"ctaText": req.CTAText,
		"ctaLink": req.CTALink,
		"active":  req.Active,
	}}
	body, err := s.requester.Post(ctx, "/api/announcements", token, payload)
	if err != nil {
		return nil, err
	}
	var raw rawAnnouncement
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	m := s.toModel(raw)
	return &m, nil
}

func (s *announcementService) Update(ctx context.Context, token, id string, req models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	data := map[string]interface{}{}
	if req.Title != nil {
		data["title"] = *req.Title
	}
	if req.Message != nil {
		data["message"] = *req.Message
	}
	if req.CTAText != nil {
		data["ctaText"] = *req.CTAText
	}
	if req.CTALink != nil {
		data["ctaLink"] = *req.CTALink
	}
	if req.Active != nil {
		data["active"] = *req.Active
	}
	body, err := s.requester.Put(ctx, "/api/announcements/"+url.PathEscape(id), token, map[string]interface{}{"data": data})
	if err != nil {
		return nil, err
	}
	var raw rawAnnouncement
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	m := s.toModel(raw)
	return &m, nil
}

func (s *announcementService) Delete(ctx context.Context, token, id string) error {
	return s.requester.Delete(ctx, "/api/announcements/"+url.PathEscape(id), token)
}

func setPagination(q url.Values, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(pageSize))
}
