package api

import (
	"context"
	"net/http"

	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// PerformanceDependencies defines the interface for performance reads.
type PerformanceDependencies interface {
	ListPerformances(ctx context.Context, f filter.Performances) ([]schemas.Performance, error)
}

// PerformancesHandler handles performance requests.
type PerformancesHandler struct {
	deps         PerformanceDependencies
	defaultLimit int
	logger       logger.Logger
}

// NewPerformancesHandler creates a new performances handler.
func NewPerformancesHandler(deps PerformanceDependencies, defaultLimit int, log logger.Logger) *PerformancesHandler {
	return &PerformancesHandler{deps: deps, defaultLimit: defaultLimit, logger: log}
}

// HandleListPerformances handles GET /v0/performances/ requests.
func (h *PerformancesHandler) HandleListPerformances(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_performances"
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
	rows, err := h.deps.ListPerformances(r.Context(), filter.Performances{Page: page, MinLastChangedDate: since})
	if err != nil {
		writeStoreError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
