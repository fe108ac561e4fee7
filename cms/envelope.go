package cms

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/crestmont/site-api/models"
)

// The CMS wraps every collection response in {"data": ..., "meta": ...} and,
// depending on its version, either nests entry fields under "attributes" or
// inlines them next to the id. All decoding below accepts both shapes so a
// CMS upgrade does not break the site.

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination models.Pagination `json:"pagination"`
	} `json:"meta"`
}

// flexID decodes a CMS id that may arrive as a JSON number or a string
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

// decodeEnvelope parses a collection or single-entry response body. The
// caller passes the raw item type; dst receives either one item or a slice.
func decodeEnvelope(body []byte, dst interface{}) (models.Pagination, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.Pagination{}, fmt.Errorf("failed to decode cms envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return env.Meta.Pagination, nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return models.Pagination{}, fmt.Errorf("failed to decode cms data: %w", err)
	}
	return env.Meta.Pagination, nil
}

// rawMedia covers the three shapes the CMS serves a media field in: the bare
// object, an object wrapped in {"data": {"attributes": ...}}, and an array of
// either.
type rawMedia struct {
	URL             string  `json:"url"`
	AlternativeText string  `json:"alternativeText"`
	Name            string  `json:"name"`
	Mime            string  `json:"mime"`
	Size            float64 `json:"size"`
	Formats         map[string]struct {
		URL string `json:"url"`
	} `json:"formats"`
	Attributes *rawMedia `json:"attributes"`
	Data       json.RawMessage `json:"data"`
}

func (m *rawMedia) flatten() *rawMedia {
	if m == nil {
		return nil
	}
	if len(m.Data) > 0 && string(m.Data) != "null" {
		var inner rawMedia
		if err := json.Unmarshal(m.Data, &inner); err == nil {
			return inner.flatten()
		}
		// relation arrays: take the first element
		var list []rawMedia
		if err := json.Unmarshal(m.Data, &list); err == nil && len(list) > 0 {
			return list[0].flatten()
		}
		return nil
	}
	if m.Attributes != nil {
		return m.Attributes.flatten()
	}
	if m.URL == "" {
		return nil
	}
	return m
}

// resolveMediaURL turns the CMS's relative upload paths into absolute URLs;
// already-absolute URLs (a media CDN) pass through untouched.
func resolveMediaURL(base, u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimSuffix(base, "/") + u
}

// toMedia converts a raw media field to the API shape, preferring a smaller
// pre-generated format when one exists
func toMedia(base string, m *rawMedia, format string) *models.Media {
	flat := m.flatten()
	if flat == nil {
		return nil
	}
	u := flat.URL
	if format != "" {
		if f, ok := flat.Formats[format]; ok && f.URL != "" {
			u = f.URL
		}
	}
	return &models.Media{
		URL:             resolveMediaURL(base, u),
		AlternativeText: flat.AlternativeText,
		Mime:            flat.Mime,
		Size:            int64(flat.Size),
		Name:            flat.Name,
	}
}

// PlaceholderImageURL is the site-served fallback for entries without an
// uploaded image
const PlaceholderImageURL = "/images/placeholder.png"

// toMediaOrPlaceholder is toMedia for slots the site always renders an
// image in
func toMediaOrPlaceholder(base string, m *rawMedia, format string) *models.Media {
	if media := toMedia(base, m, format); media != nil {
		return media
	}
	return &models.Media{URL: PlaceholderImageURL}
}

// rawAttachment is the labelled-file component used on notices and reports
type rawAttachment struct {
	ID    flexID    `json:"id"`
	Label string    `json:"label"`
	File  *rawMedia `json:"file"`
}

func toAttachments(base string, raw []rawAttachment) []models.Attachment {
	var out []models.Attachment
	for _, a := range raw {
		file := toMedia(base, a.File, "")
		if file == nil && a.Label == "" {
			continue
		}
		out = append(out, models.Attachment{
			ID:    a.ID.String(),
			Label: a.Label,
			File:  file,
		})
	}
	return out
}
