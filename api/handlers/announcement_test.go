package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/crestmont/site-api/api/handlers"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/cms/mocks"
	"github.com/crestmont/site-api/models"
	"github.com/crestmont/site-api/session"
)

const activeBody = `{"data":[
	{"id":1,"title":"Window open","message":"m1","active":true},
	{"id":2,"title":"New fund","message":"m2","active":true}
],"meta":{}}`

func newAnnouncementHandler(requester *mocks.Requester) handlers.Announcement {
	store := session.NewMemoryStore(time.Minute)
	return handlers.Announcement{
		Service: cms.NewAnnouncementService(requester, "https://cms.io"),
		Tracker: session.NewTracker(store),
	}
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == handlers.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAnnouncement_ActiveAnnouncementsHandler(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).Return([]byte(activeBody), nil)

	a := newAnnouncementHandler(r)

	req := httptest.NewRequest("GET", "/api/v1/announcements", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ActiveAnnouncementsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.Announcement
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Window open", got[0].Title)
}

func TestAnnouncement_ActiveAnnouncementsHandlerUpstreamError(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).
		Return(nil, &cms.StatusError{Code: 500, Body: "boom"})

	a := newAnnouncementHandler(r)

	req := httptest.NewRequest("GET", "/api/v1/announcements", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ActiveAnnouncementsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "failed to get announcements", resp.Response.Message)
}

func TestAnnouncement_PresentationFlow(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).Return([]byte(activeBody), nil)

	a := newAnnouncementHandler(r)

	// first visit: a session cookie is minted and the set presents at index 0
	req := httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	assert.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	var first models.PresentationResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	assert.True(t, first.Present)
	assert.Equal(t, 0, first.Index)
	assert.Len(t, first.Announcements, 2)

	// step through both announcements
	req = httptest.NewRequest("POST", "/api/v1/announcements/presentation/advance", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	http.HandlerFunc(a.AdvanceHandler).ServeHTTP(rr, req)

	var adv models.AdvanceResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adv))
	assert.Equal(t, 1, adv.Index)
	assert.False(t, adv.Done)

	req = httptest.NewRequest("POST", "/api/v1/announcements/presentation/advance", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	http.HandlerFunc(a.AdvanceHandler).ServeHTTP(rr, req)

	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adv))
	assert.True(t, adv.Done)

	// a refetch of the same set no longer presents
	req = httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)

	var second models.PresentationResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	assert.False(t, second.Present)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestAnnouncement_PresentationChangedSetStartsOver(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).Return([]byte(activeBody), nil).Once()

	a := newAnnouncementHandler(r)

	req := httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)
	cookie := sessionCookie(rr)

	// dismiss everything
	dreq := httptest.NewRequest("POST", "/api/v1/announcements/presentation/dismiss", nil)
	dreq.AddCookie(cookie)
	drr := httptest.NewRecorder()
	http.HandlerFunc(a.DismissHandler).ServeHTTP(drr, dreq)
	assert.Equal(t, http.StatusOK, drr.Code)

	// the CMS now serves a different set: it presents again from the top
	changed := `{"data":[{"id":3,"title":"Results published","message":"m3","active":true}],"meta":{}}`
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).Return([]byte(changed), nil)

	req = httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)

	var resp models.PresentationResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Present)
	assert.Equal(t, 0, resp.Index)
	assert.Len(t, resp.Announcements, 1)
}

func TestAnnouncement_PresentationEmptySetNeverPresents(t *testing.T) {
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).
		Return([]byte(`{"data":[],"meta":{}}`), nil)

	a := newAnnouncementHandler(r)

	req := httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.PresentationResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Present)
	assert.Empty(t, resp.Fingerprint)
	assert.Empty(t, resp.Announcements)
}

func TestAnnouncement_InactiveRecordsAreExcluded(t *testing.T) {
	body := `{"data":[
		{"id":1,"title":"Live","message":"m","active":true},
		{"id":2,"title":"Draft","message":"m","active":false}
	],"meta":{}}`
	r := &mocks.Requester{}
	r.On("Get", mock.Anything, "/api/announcements", mock.Anything).Return([]byte(body), nil)

	a := newAnnouncementHandler(r)

	req := httptest.NewRequest("GET", "/api/v1/announcements/presentation", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PresentationHandler).ServeHTTP(rr, req)

	var resp models.PresentationResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Present)
	assert.Len(t, resp.Announcements, 1)
	assert.Equal(t, "Live", resp.Announcements[0].Title)
}
