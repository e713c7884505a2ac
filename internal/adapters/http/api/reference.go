package api

import (
	"context"
	"net/http"

	"github.com/okian/predictor/internal/domain/model"
)

// ReferenceDependencies exposes the static fixture data.
type ReferenceDependencies interface {
	Players(ctx context.Context) []model.Player
	Fixture(ctx context.Context) model.Fixture
}

type playersResponse struct {
	Players []model.Player `json:"players"`
}

// ReferenceHandler serves the roster and fixture.
type ReferenceHandler struct {
	deps ReferenceDependencies
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(deps ReferenceDependencies) *ReferenceHandler {
	return &ReferenceHandler{deps: deps}
}

// HandlePlayers handles GET /players.
func (h *ReferenceHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	players := h.deps.Players(r.Context())
	if players == nil {
		players = []model.Player{}
	}
	writeJSON(w, http.StatusOK, playersResponse{Players: players})
}

// HandleFixture handles GET /fixture.
func (h *ReferenceHandler) HandleFixture(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Fixture(r.Context()))
}
