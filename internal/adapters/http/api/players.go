package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// PlayerDependencies defines the interface for player reads.
type PlayerDependencies interface {
	ListPlayers(ctx context.Context, f filter.Players) ([]schemas.Player, error)
	GetPlayer(ctx context.Context, playerID int) (schemas.Player, bool, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps         PlayerDependencies
	defaultLimit int
	logger       logger.Logger
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies, defaultLimit int, log logger.Logger) *PlayersHandler {
	return &PlayersHandler{deps: deps, defaultLimit: defaultLimit, logger: log}
}

// HandleListPlayers handles GET /v0/players/ requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	q := r.URL.Query()
	page, err := parsePage(q, h.defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	since, err := optionalDate(q, paramMinChanged)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.deps.ListPlayers(r.Context(), filter.Players{
		Page:               page,
		MinLastChangedDate: since,
		FirstName:          optionalString(q, paramFirstName),
		LastName:           optionalString(q, paramLastName),
	})
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGetPlayer handles GET /v0/players/{player_id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	id, err := parseID(chi.URLParam(r, pathParamPlayerID), pathParamPlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	player, found, err := h.deps.GetPlayer(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", errPlayerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, player)
}
