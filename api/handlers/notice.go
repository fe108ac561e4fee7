package handlers

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Notice exported for testing purposes
type Notice struct {
	Service cms.NoticeService
}

// pageParams reads page/pageSize query params with sane defaults
func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}
	return page, pageSize
}

// listEnvelope is the shape every paginated list endpoint responds with
type listEnvelope struct {
	Data interface{} `json:"data"`
	Meta models.Meta `json:"meta"`
}

func writeList(w http.ResponseWriter, data interface{}, pag models.Pagination) {
	b, err := json.Marshal(listEnvelope{Data: data, Meta: models.Meta{Pagination: &pag}})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// NoticesHandler returns paginated notices, optionally filtered by tag slug
func (n Notice) NoticesHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	tag := r.URL.Query().Get("tag")

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	notices, pag, err := n.Service.List(ctx, page, pageSize, tag)
	if err != nil {
		config.ErrorStatus("failed to get notices", http.StatusBadGateway, w, err)
		return
	}
	if len(notices) == 0 {
		notices = []models.Notice{}
	}
	writeList(w, notices, pag)
}

// FeaturedNoticeHandler returns the current featured notice, or null when
// none is flagged
func (n Notice) FeaturedNoticeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	featured, err := n.Service.Featured(ctx)
	if err != nil {
		config.ErrorStatus("failed to get featured notice", http.StatusBadGateway, w, err)
		return
	}

	b, err := json.Marshal(featured)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// NoticeBySlugHandler returns a single notice by its slug
func (n Notice) NoticeBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	notice, err := n.Service.BySlug(ctx, slug)
	if err != nil {
		config.ErrorStatus("failed to get notice", http.StatusBadGateway, w, err)
		return
	}
	if notice == nil {
		config.ErrorStatus("notice not found", http.StatusNotFound, w, cms.ErrNotFound)
		return
	}

	b, err := json.Marshal(notice)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
