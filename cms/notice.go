package cms

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/crestmont/site-api/models"
)

// NoticeService exposes the notices/updates collection
type NoticeService interface {
	List(ctx context.Context, page, pageSize int, tag string) ([]models.Notice, models.Pagination, error)
	Featured(ctx context.Context) (*models.Notice, error)
	BySlug(ctx context.Context, slug string) (*models.Notice, error)
}

type noticeService struct {
	requester Requester
	mediaBase string
}

// NewNoticeService initializes the notice collection client
func NewNoticeService(r Requester, mediaBase string) NoticeService {
	return &noticeService{requester: r, mediaBase: mediaBase}
}

type rawTag struct {
	ID         flexID  `json:"id"`
	Attributes *rawTag `json:"attributes"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Data       *rawTag `json:"data"`
}

func (t *rawTag) flatten() *rawTag {
	if t == nil {
		return nil
	}
	if t.Data != nil {
		return t.Data.flatten()
	}
	if t.Attributes != nil {
		inner := t.Attributes.flatten()
		if inner != nil && inner.ID == "" {
			inner.ID = t.ID
		}
		return inner
	}
	if t.Name == "" && t.Slug == "" {
		return nil
	}
	return t
}

type rawNotice struct {
	ID         flexID     `json:"id"`
	Attributes *rawNotice `json:"attributes"`

	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	Date        string                `json:"date"`
	Content     []models.ContentBlock `json:"content"`
	Thumbnail   *rawMedia             `json:"thumbnail"`
	Attachments []rawAttachment       `json:"attachments"`
	Tags        *rawTag               `json:"tags"`
	IsFeatured  bool                  `json:"is_featured"`
	Priority    int                   `json:"priority"`
	PinnedUntil string                `json:"pinned_until"`
}

func (s *noticeService) toModel(raw rawNotice) models.Notice {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	n := models.Notice{
		ID:          raw.ID.String(),
		Title:       attrs.Title,
		Slug:        attrs.Slug,
		Date:        attrs.Date,
		Content:     attrs.Content,
		Thumbnail:   toMedia(s.mediaBase, attrs.Thumbnail, "small"),
		Attachments: toAttachments(s.mediaBase, attrs.Attachments),
		IsFeatured:  attrs.IsFeatured,
		Priority:    attrs.Priority,
		PinnedUntil: attrs.PinnedUntil,
	}
	if tag := attrs.Tags.flatten(); tag != nil {
		n.Tags = &models.Tag{ID: tag.ID.String(), Name: tag.Name, Slug: tag.Slug}
	}
	return n
}

func (s *noticeService) fetch(ctx context.Context, q url.Values) ([]models.Notice, models.Pagination, error) {
	body, err := s.requester.Get(ctx, "/api/notices", q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var raw []rawNotice
	pag, err := decodeEnvelope(body, &raw)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.Notice, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, pag, nil
}

func (s *noticeService) List(ctx context.Context, page, pageSize int, tag string) ([]models.Notice, models.Pagination, error) {
	q := url.Values{}
	q.Set("sort", "date:desc")
	q.Set("populate", "thumbnail,attachments.file,tags")
	setPagination(q, page, pageSize)
	if tag != "" {
		q.Set("filters[tags][slug][$eq]", tag)
	}

	notices, pag, err := s.fetch(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	sortPinnedFirst(notices)
	return notices, pag, nil
}

// sortPinnedFirst floats still-pinned notices to the top, highest priority
// first, and leaves the date ordering intact for the rest
func sortPinnedFirst(notices []models.Notice) {
	now := time.Now()
	pinned := func(n models.Notice) bool {
		if n.PinnedUntil == "" {
			return false
		}
		until, err := time.Parse("2006-01-02", n.PinnedUntil)
		if err != nil {
			return false
		}
		return !until.Before(now.Truncate(24 * time.Hour))
	}
	sort.SliceStable(notices, func(i, j int) bool {
		pi, pj := pinned(notices[i]), pinned(notices[j])
		if pi != pj {
			return pi
		}
		if pi && notices[i].Priority != notices[j].Priority {
			return notices[i].Priority > notices[j].Priority
		}
		return false
	})
}

func (s *noticeService) Featured(ctx context.Context) (*models.Notice, error) {
	q := url.Values{}
	q.Set("filters[is_featured][$eq]", "true")
	q.Set("sort", "date:desc")
	q.Set("populate", "thumbnail,attachments.file,tags")
	q.Set("pagination[pageSize]", "1")

	notices, _, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(notices) == 0 {
		return nil, nil
	}
	return &notices[0], nil
}

func (s *noticeService) BySlug(ctx context.Context, slug string) (*models.Notice, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	q.Set("populate", "thumbnail,attachments.file,tags")

	notices, _, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(notices) == 0 {
		return nil, nil
	}
	return &notices[0], nil
}
