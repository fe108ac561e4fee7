package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
	"github.com/crestmont/site-api/session"
)

// SessionCookie identifies a browsing session for announcement tracking.
// It carries no identity, only a random id.
const SessionCookie = "site_session"

// Announcement exported for testing purposes
type Announcement struct {
	Service cms.AnnouncementService
	Tracker *session.Tracker
}

// sessionID returns the request's session id, minting a cookie when absent
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// ActiveAnnouncementsHandler returns the active announcements without
// touching session state
func (a Announcement) ActiveAnnouncementsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	active, err := a.Service.Active(ctx)
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusBadGateway, w, err)
		return
	}
	if len(active) == 0 {
		active = []models.Announcement{}
	}
	b, err := json.Marshal(active)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PresentationHandler tells the session whether it still has announcements
// to see. A set the session has already acknowledged is never re-presented,
// however often the page refetches it; a changed set starts over at index 0.
func (a Announcement) PresentationHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	active, err := a.Service.Active(ctx)
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusBadGateway, w, err)
		return
	}
	eligible, ids := session.EligibleIDs(active)

	resp := models.PresentationResponse{Announcements: []models.Announcement{}}
	if len(ids) > 0 {
		storedFP, index, acked := a.Tracker.State(sid)
		fp := session.Fingerprint(ids)
		if fp != storedFP {
			a.Tracker.Begin(sid, fp)
			index = 0
			acked = false
		}
		resp = models.PresentationResponse{
			Present:       !acked && index < len(eligible),
			Fingerprint:   fp,
			Index:         index,
			Announcements: eligible,
		}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AdvanceHandler steps the session to its next unseen announcement
func (a Announcement) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	active, err := a.Service.Active(ctx)
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusBadGateway, w, err)
		return
	}
	eligible, _ := session.EligibleIDs(active)

	resp := a.Tracker.Advance(sid, len(eligible))
	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DismissHandler acknowledges the whole current set in one step, for the
// close button on the overlay
func (a Announcement) DismissHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	a.Tracker.AcknowledgeAll(sid)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"dismissed": true}`))
}
