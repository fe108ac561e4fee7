package handlers

import (
	"net/http"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Report exported for testing purposes
type Report struct {
	Service cms.ReportService
}

// ReportsHandler returns paginated reports, optionally filtered by type
func (h Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	reportType := r.URL.Query().Get("type")

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	reports, pag, err := h.Service.List(ctx, page, pageSize, reportType)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusBadGateway, w, err)
		return
	}
	if len(reports) == 0 {
		reports = []models.Report{}
	}
	writeList(w, reports, pag)
}
