package cms

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/crestmont/site-api/cms/mocks"
	"github.com/crestmont/site-api/models"
)

func TestAnnouncementActiveQuery(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).
		Return([]byte(`{"data":[{"id":1,"title":"Window open","message":"m","active":true}],"meta":{}}`), nil)

	svc := NewAnnouncementService(r, "https://cms.io")
	got, err := svc.Active(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.True(t, got[0].Active)

	q := r.Calls[0].Arguments.Get(2).(url.Values)
	assert.Equal(t, "true", q.Get("filters[active][$eq]"))
}

func TestAnnouncementCreateWrapsData(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Post", mock.Anything, "/api/announcements", "admin-jwt", mock.Anything).
		Return([]byte(`{"data":{"id":9,"attributes":{"title":"New","message":"m","active":false}},"meta":{}}`), nil)

	svc := NewAnnouncementService(r, "https://cms.io")
	created, err := svc.Create(context.TODO(), "admin-jwt", models.CreateAnnouncementRequest{
		Title:   "New",
		Message: "m",
	})
	assert.NoError(t, err)
	assert.Equal(t, "9", created.ID)
	assert.Equal(t, "New", created.Title)

	payload := r.Calls[0].Arguments.Get(3).(map[string]interface{})
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "New", data["title"])
}

func TestAnnouncementUpdateSendsOnlyChangedFields(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Put", mock.Anything, "/api/announcements/9", "admin-jwt", mock.Anything).
		Return([]byte(`{"data":{"id":9,"attributes":{"title":"T","message":"m","active":true}},"meta":{}}`), nil)

	active := true
	svc := NewAnnouncementService(r, "https://cms.io")
	_, err := svc.Update(context.TODO(), "admin-jwt", "9", models.UpdateAnnouncementRequest{Active: &active})
	assert.NoError(t, err)

	payload := r.Calls[0].Arguments.Get(3).(map[string]interface{})
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, true, data["active"])
	assert.NotContains(t, data, "title")
}

func TestAnnouncementDelete(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Delete", mock.Anything, "/api/announcements/9", "admin-jwt").Return(nil)

	svc := NewAnnouncementService(r, "https://cms.io")
	assert.NoError(t, svc.Delete(context.TODO(), "admin-jwt", "9"))
	r.AssertExpectations(t)
}
