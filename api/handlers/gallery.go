package handlers

import (
	"net/http"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Gallery exported for testing purposes
type Gallery struct {
	Service cms.GalleryService
}

// GalleriesHandler returns paginated photo galleries
func (h Gallery) GalleriesHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	galleries, pag, err := h.Service.List(ctx, page, pageSize)
	if err != nil {
		config.ErrorStatus("failed to get galleries", http.StatusBadGateway, w, err)
		return
	}
	if len(galleries) == 0 {
		galleries = []models.Gallery{}
	}
	writeList(w, galleries, pag)
}
