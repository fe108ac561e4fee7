package cms

import (
	"context"
	"net/url"

	"github.com/crestmont/site-api/models"
)

// ReportService exposes the reports collection
type ReportService interface {
	List(ctx context.Context, page, pageSize int, reportType string) ([]models.Report, models.Pagination, error)
}

type reportService struct {
	requester Requester
	mediaBase string
}

// NewReportService initializes the report collection client
func NewReportService(r Requester, mediaBase string) ReportService {
	return &reportService{requester: r, mediaBase: mediaBase}
}

type rawReport struct {
	ID         flexID     `json:"id"`
	Attributes *rawReport `json:"attributes"`

	Title         string                `json:"title"`
	Description   []models.ContentBlock `json:"description"`
	Type          string                `json:"type"`
	DatePublished string                `json:"datePublished"`
	File          *rawMedia             `json:"file"`
}

func (s *reportService) toModel(raw rawReport) models.Report {
	attrs := &raw
	if raw.Attributes != nil {
		attrs = raw.Attributes
	}
	return models.Report{
		ID:            raw.ID.String(),
		Title:         attrs.Title,
		Description:   attrs.Description,
		Type:          attrs.Type,
		DatePublished: attrs.DatePublished,
		File:          toMedia(s.mediaBase, attrs.File, ""),
	}
}

func (s *reportService) List(ctx context.Context, page, pageSize int, reportType string) ([]models.Report, models.Pagination, error) {
	q := url.Values{}
	q.Set("sort", "datePublished:desc")
	q.Set("populate", "file")
	setPagination(q, page, pageSize)
	if reportType != "" {
		q.Set("filters[type][$eq]", reportType)
	}

	body, err := s.requester.Get(ctx, "/api/reports", q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var raw []rawReport
	pag, err := decodeEnvelope(body, &raw)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.Report, 0, len(raw))
	for _, r := range raw {
		out = append(out, s.toModel(r))
	}
	return out, pag, nil
}
