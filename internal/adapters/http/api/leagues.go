package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// LeagueDependencies defines the interface for league reads.
type LeagueDependencies interface {
	ListLeagues(ctx context.Context, f filter.Leagues) ([]schemas.League, error)
	GetLeague(ctx context.Context, leagueID int) (schemas.League, bool, error)
}

// LeaguesHandler handles league requests.
type LeaguesHandler struct {
	deps         LeagueDependencies
	defaultLimit int
	logger       logger.Logger
}

// NewLeaguesHandler creates a new leagues handler.
func NewLeaguesHandler(deps LeagueDependencies, defaultLimit int, log logger.Logger) *LeaguesHandler {
	return &LeaguesHandler{deps: deps, defaultLimit: defaultLimit, logger: log}
}

// HandleListLeagues handles GET /v0/leagues/ requests.
func (h *LeaguesHandler) HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_leagues"
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
	rows, err := h.deps.ListLeagues(r.Context(), filter.Leagues{
		Page:               page,
		MinLastChangedDate: since,
		LeagueName:         optionalString(q, paramLeagueName),
	})
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGetLeague handles GET /v0/leagues/{league_id} requests.
func (h *LeaguesHandler) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_league"
	id, err := parseID(chi.URLParam(r, pathParamLeagueID), pathParamLeagueID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	league, found, err := h.deps.GetLeague(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", errLeagueNotFound)
		return
	}
	writeJSON(w, http.StatusOK, league)
}
