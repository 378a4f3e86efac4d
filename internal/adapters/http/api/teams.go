package api

import (
	"context"
	"net/http"

	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// TeamDependencies defines the interface for team reads.
type TeamDependencies interface {
	ListTeams(ctx context.Context, f filter.Teams) ([]schemas.Team, error)
}

// TeamsHandler handles team requests.
type TeamsHandler struct {
	deps         TeamDependencies
	defaultLimit int
	logger       logger.Logger
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies, defaultLimit int, log logger.Logger) *TeamsHandler {
	return &TeamsHandler{deps: deps, defaultLimit: defaultLimit, logger: log}
}

// HandleListTeams handles GET /v0/teams/ requests.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_teams"
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
	leagueID, err := optionalInt(q, paramLeagueID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.deps.ListTeams(r.Context(), filter.Teams{
		Page:               page,
		MinLastChangedDate: since,
		TeamName:           optionalString(q, paramTeamName),
		LeagueID:           leagueID,
	})
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
