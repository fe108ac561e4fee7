package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gookit/validate"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// AdminAnnouncement proxies announcement management to the CMS under the
// admin's own token, so CMS permissions stay authoritative
type AdminAnnouncement struct {
	Service cms.AnnouncementService
}

// ListHandler returns all announcements, active or not
func (h AdminAnnouncement) ListHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	announcements, pag, err := h.Service.All(ctx, api.AdminToken(r.Context()), page, pageSize)
	if err != nil {
		if cms.IsUnauthorized(err) {
			config.ErrorStatus("not permitted", http.StatusForbidden, w, err)
			return
		}
		config.ErrorStatus("failed to get announcements", http.StatusBadGateway, w, err)
		return
	}
	if len(announcements) == 0 {
		announcements = []models.Announcement{}
	}
	writeList(w, announcements, pag)
}

// GetHandler returns one announcement by ID
func (h AdminAnnouncement) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["announcement_id"]

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	announcement, err := h.Service.Get(ctx, api.AdminToken(r.Context()), id)
	if err != nil {
		if cms.IsNotFound(err) {
			config.ErrorStatus("announcement not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get announcement", http.StatusBadGateway, w, err)
		return
	}

	b, err := json.Marshal(announcement)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateHandler creates an announcement
func (h AdminAnnouncement) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	v := validate.Struct(req)
	if !v.Validate() {
		config.ErrorStatus("invalid announcement", http.StatusBadRequest, w, v.Errors)
		return
	}

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	created, err := h.Service.Create(ctx, api.AdminToken(r.Context()), req)
	if err != nil {
		if cms.IsUnauthorized(err) {
			config.ErrorStatus("not permitted", http.StatusForbidden, w, err)
			return
		}
		config.ErrorStatus("failed to create announcement", http.StatusBadGateway, w, err)
		return
	}

	zap.S().Infow("announcement created",
		"id", created.ID,
		"by", api.AdminUsername(r.Context()))

	b, err := json.Marshal(created)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateHandler partially updates an announcement; absent fields are left
// untouched
func (h AdminAnnouncement) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["announcement_id"]

	var req models.UpdateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	updated, err := h.Service.Update(ctx, api.AdminToken(r.Context()), id, req)
	if err != nil {
		if cms.IsNotFound(err) {
			config.ErrorStatus("announcement not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to update announcement", http.StatusBadGateway, w, err)
		return
	}

	zap.S().Infow("announcement updated",
		"id", id,
		"by", api.AdminUsername(r.Context()))

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteHandler deletes an announcement by its ID
func (h AdminAnnouncement) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["announcement_id"]

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	if err := h.Service.Delete(ctx, api.AdminToken(r.Context()), id); err != nil {
		if cms.IsNotFound(err) {
			config.ErrorStatus("announcement not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to delete announcement", http.StatusBadGateway, w, err)
		return
	}

	zap.S().Infow("announcement deleted",
		"id", id,
		"by", api.AdminUsername(r.Context()))

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
