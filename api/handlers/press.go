package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Press exported for testing purposes
type Press struct {
	Service cms.PressService
}

// PressReleasesHandler returns paginated press releases
func (h Press) PressReleasesHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	releases, pag, err := h.Service.List(ctx, page, pageSize)
	if err != nil {
		config.ErrorStatus("failed to get press releases", http.StatusBadGateway, w, err)
		return
	}
	if len(releases) == 0 {
		releases = []models.PressRelease{}
	}
	writeList(w, releases, pag)
}

// PressReleaseBySlugHandler returns a single press release by its slug
func (h Press) PressReleaseBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	release, err := h.Service.BySlug(ctx, slug)
	if err != nil {
		config.ErrorStatus("failed to get press release", http.StatusBadGateway, w, err)
		return
	}
	if release == nil {
		config.ErrorStatus("press release not found", http.StatusNotFound, w, cms.ErrNotFound)
		return
	}

	b, err := json.Marshal(release)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
