package cms

import (
	"context"
	"net/url"

	"github.com/crestmont/site-api/models"
)

// BoardService exposes the board member collection
type BoardService interface {
	List(ctx context.Context) ([]models.BoardMember, error)
	ByID(ctx context.Context, id string) (*models.BoardMember, error)
}

type boardService struct {
	requester Requester
	mediaBase string
}

// NewBoardService initializes the board member collection client
func NewBoardService(r Requester, mediaBase string) BoardService {
	return &boardService{requester: r, mediaBase: mediaBase}
}

type rawBoardMember struct {
	ID         flexID          `json:"id"`
	Attributes *rawBoardMember `json:"attributes"`

	Name     string                `json:"name"`
	Role     string                `json:"role"`
	Bio      []models.ContentBlock `json:"bio"`
	Photo    *rawMedia             `json:"photo"`
	Ordering int                   `json:"ordering"`
}

func (s *boardService) toModel(raw rawBoardMember) models.BoardMember {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	return models.BoardMember{
		ID:       raw.ID.String(),
		Name:     attrs.Name,
		Role:     attrs.Role,
		Bio:      attrs.Bio,
		Photo:    toMediaOrPlaceholder(s.mediaBase, attrs.Photo, "small"),
		Ordering: attrs.Ordering,
	}
}

func (s *boardService) List(ctx context.Context) ([]models.BoardMember, error) {
	q := url.Values{}
	q.Set("sort", "ordering:asc")
	q.Set("populate", "photo")
	q.Set("pagination[pageSize]", "100")

	body, err := s.requester.Get(ctx, "/api/board-members", q)
	if err != nil {
		return nil, err
	}
	var raw []rawBoardMember
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	out := make([]models.BoardMember, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, nil
}

func (s *boardService) ByID(ctx context.Context, id string) (*models.BoardMember, error) {
	q := url.Values{}
	q.Set("populate", "photo")

	body, err := s.requester.Get(ctx, "/api/board-members/"+url.PathEscape(id), q)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var raw rawBoardMember
	if _, err := decodeEnvelope(body, &raw); err != nil {
		return nil, err
	}
	m := s.toModel(raw)
	return &m, nil
}
