package cms

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/crestmont/site-api/models"
)

func jsonUnmarshal(s string, v interface{}) error {
	return json.Unmarshal([]byte(s), v)
}

func TestDecodeEnvelopeList(t *testing.T) {
	body := []byte(`{"data":[{"id":1,"title":"a"}],"meta":{"pagination":{"page":2,"pageSize":10,"pageCount":5,"total":42}}}`)

	var raw []rawNotice
	pag, err := decodeEnvelope(body, &raw)
	assert.NoError(t, err)
	assert.Len(t, raw, 1)
	assert.Equal(t, models.Pagination{Page: 2, PageSize: 10, PageCount: 5, Total: 42}, pag)
}

func TestDecodeEnvelopeNullData(t *testing.T) {
	var raw []rawNotice
	_, err := decodeEnvelope([]byte(`{"data":null,"meta":{}}`), &raw)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

func TestFlexIDAcceptsNumberAndString(t *testing.T) {
	var n rawNotice
	assert.NoError(t, jsonUnmarshal(`{"id":17}`, &n))
	assert.Equal(t, "17", n.ID.String())

	assert.NoError(t, jsonUnmarshal(`{"id":"abc123"}`, &n))
	assert.Equal(t, "abc123", n.ID.String())
}

func TestNoticeNormalizationFlatAndNested(t *testing.T) {
	flat := []byte(`{"data":[{"id":1,"title":"T","slug":"t","is_featured":true,
		"thumbnail":{"url":"/uploads/t.png","alternativeText":"alt"}}],"meta":{}}`)
	nested := []byte(`{"data":[{"id":1,"attributes":{"title":"T","slug":"t","is_featured":true,
		"thumbnail":{"data":{"attributes":{"url":"/uploads/t.png","alternativeText":"alt"}}}}}],"meta":{}}`)

	svc := &noticeService{mediaBase: "https://cms.example.com"}

	decode := func(body []byte) models.Notice {
		var raw []rawNotice
		_, err := decodeEnvelope(body, &raw)
		assert.NoError(t, err)
		assert.Len(t, raw, 1)
		return svc.toModel(raw[0])
	}

	a, b := decode(flat), decode(nested)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("flat and nested shapes disagree (-flat +nested):\n%s", diff)
	}
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "T", a.Title)
	assert.True(t, a.IsFeatured)
	assert.Equal(t, "https://cms.example.com/uploads/t.png", a.Thumbnail.URL)
	assert.Equal(t, "alt", a.Thumbnail.AlternativeText)
}

func TestResolveMediaURL(t *testing.T) {
	assert.Equal(t, "https://cms.io/uploads/a.pdf", resolveMediaURL("https://cms.io", "/uploads/a.pdf"))
	assert.Equal(t, "https://cms.io/uploads/a.pdf", resolveMediaURL("https://cms.io/", "/uploads/a.pdf"))
	// absolute URLs (media CDN) pass through
	assert.Equal(t, "https://cdn.io/a.pdf", resolveMediaURL("https://cms.io", "https://cdn.io/a.pdf"))
	assert.Equal(t, "", resolveMediaURL("https://cms.io", ""))
}

func TestToMediaPrefersFormat(t *testing.T) {
	raw := &rawMedia{
		URL: "/uploads/full.png",
		Formats: map[string]struct {
			URL string `json:"url"`
		}{
			"small": {URL: "/uploads/small.png"},
		},
	}
	m := toMedia("https://cms.io", raw, "small")
	assert.Equal(t, "https://cms.io/uploads/small.png", m.URL)

	// missing format falls back to the original
	m = toMedia("https://cms.io", raw, "medium")
	assert.Equal(t, "https://cms.io/uploads/full.png", m.URL)
}

func TestToMediaEmptyRelation(t *testing.T) {
	var raw rawMedia
	assert.NoError(t, jsonUnmarshal(`{"data":null}`, &raw))
	assert.Nil(t, toMedia("https://cms.io", &raw, ""))
	assert.Nil(t, toMedia("https://cms.io", nil, ""))
}

func TestToMediaOrPlaceholder(t *testing.T) {
	m := toMediaOrPlaceholder("https://cms.io", nil, "")
	assert.Equal(t, PlaceholderImageURL, m.URL)

	raw := &rawMedia{URL: "/uploads/a.png"}
	m = toMediaOrPlaceholder("https://cms.io", raw, "")
	assert.Equal(t, "https://cms.io/uploads/a.png", m.URL)
}

func TestAttachmentsNormalization(t *testing.T) {
	var raw rawNotice
	err := jsonUnmarshal(`{"id":1,"attachments":[
		{"id":10,"label":"Prospectus","file":{"url":"/uploads/p.pdf","name":"p.pdf","mime":"application/pdf","size":1024}},
		{"id":11,"label":"","file":{"data":null}}
	]}`, &raw)
	assert.NoError(t, err)

	got := toAttachments("https://cms.io", raw.Attachments)
	assert.Len(t, got, 1)
	assert.Equal(t, "10", got[0].ID)
	assert.Equal(t, "Prospectus", got[0].Label)
	assert.Equal(t, "https://cms.io/uploads/p.pdf", got[0].File.URL)
	assert.Equal(t, "application/pdf", got[0].File.Mime)
}

func TestTagRelationShapes(t *testing.T) {
	svc := &noticeService{mediaBase: "https://cms.io"}

	var flat rawNotice
	assert.NoError(t, jsonUnmarshal(`{"id":1,"tags":{"id":3,"name":"News","slug":"news"}}`, &flat))
	n := svc.toModel(flat)
	assert.Equal(t, "News", n.Tags.Name)

	var nested rawNotice
	assert.NoError(t, jsonUnmarshal(`{"id":1,"tags":{"data":{"id":3,"attributes":{"name":"News","slug":"news"}}}}`, &nested))
	n = svc.toModel(nested)
	assert.Equal(t, "news", n.Tags.Slug)

	var empty rawNotice
	assert.NoError(t, jsonUnmarshal(`{"id":1,"tags":{"data":null}}`, &empty))
	assert.Nil(t, svc.toModel(empty).Tags)
}
