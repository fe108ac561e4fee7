package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/cms"
	"github.com/crestmont/site-api/config"
	"github.com/crestmont/site-api/models"
)

// Board exported for testing purposes
type Board struct {
	Service cms.BoardService
}

// BoardMembersHandler returns all board members in display order
func (h Board) BoardMembersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	members, err := h.Service.List(ctx)
	if err != nil {
		config.ErrorStatus("failed to get board members", http.StatusBadGateway, w, err)
		return
	}
	if len(members) == 0 {
		members = []models.BoardMember{}
	}
	b, err := json.Marshal(members)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// BoardMemberByIDHandler returns a board member by ID
func (h Board) BoardMemberByIDHandler(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["member_id"]

	zap.S().Debugf("member_id: %v", memberID)

	ctx, cancel := api.WithUpstreamTimeout(r.Context())
	defer cancel()

	member, err := h.Service.ByID(ctx, memberID)
	if err != nil {
		config.ErrorStatus("failed to get board member", http.StatusBadGateway, w, err)
		return
	}
	if member == nil {
		config.ErrorStatus("board member not found", http.StatusNotFound, w, cms.ErrNotFound)
		return
	}

	b, err := json.Marshal(member)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
