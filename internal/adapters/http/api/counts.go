package api

import (
	"context"
	"net/http"

	"github.com/okian/swc/pkg/logger"
	"github.com/okian/swc/pkg/schemas"
)

// CountsDependencies defines the interface for collection totals.
type CountsDependencies interface {
	Counts(ctx context.Context) (schemas.Counts, error)
}

// CountsHandler handles counts requests.
type CountsHandler struct {
	deps   CountsDependencies
	logger logger.Logger
}

// NewCountsHandler creates a new counts handler.
func NewCountsHandler(deps CountsDependencies, log logger.Logger) *CountsHandler {
	return &CountsHandler{deps: deps, logger: log}
}

// HandleCounts handles GET /v0/counts/ requests.
func (h *CountsHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.deps.Counts(r.Context())
	if err != nil {
		writeStoreError(w, r, h.logger, "api.counts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
