// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/okian/swc/internal/domain/filter"
	"github.com/okian/swc/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	PerformanceDependencies
	LeagueDependencies
	TeamDependencies
	CountsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	playersHandler      *PlayersHandler
	performancesHandler *PerformancesHandler
	leaguesHandler      *LeaguesHandler
	teamsHandler        *TeamsHandler
	countsHandler       *CountsHandler
	logger              logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	defaultLimit int
	logger       logger.Logger
}

// WithDefaultLimit sets the page size used when limit is not supplied.
func WithDefaultLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.defaultLimit = n
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	cfg := serverConfig{defaultLimit: filter.DefaultLimit, logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:       NewHealthHandler(),
		playersHandler:      NewPlayersHandler(deps, cfg.defaultLimit, cfg.logger),
		performancesHandler: NewPerformancesHandler(deps, cfg.defaultLimit, cfg.logger),
		leaguesHandler:      NewLeaguesHandler(deps, cfg.defaultLimit, cfg.logger),
		teamsHandler:        NewTeamsHandler(deps, cfg.defaultLimit, cfg.logger),
		countsHandler:       NewCountsHandler(deps, cfg.logger),
		logger:              cfg.logger,
	}
}

// Router returns a chi router with the request middleware stack and all
// API routes. Trailing slashes are optional on every route.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)

	r.Route("/v0", func(r chi.Router) {
		r.Get("/players", MetricsMiddleware(s.playersHandler.HandleListPlayers, "players"))
		r.Get("/players/{player_id}", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "player"))
		r.Get("/performances", MetricsMiddleware(s.performancesHandler.HandleListPerformances, "performances"))
		r.Get("/leagues", MetricsMiddleware(s.leaguesHandler.HandleListLeagues, "leagues"))
		r.Get("/leagues/{league_id}", MetricsMiddleware(s.leaguesHandler.HandleGetLeague, "league"))
		r.Get("/teams", MetricsMiddleware(s.teamsHandler.HandleListTeams, "teams"))
		r.Get("/counts", MetricsMiddleware(s.countsHandler.HandleCounts, "counts"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError maps service errors to responses. Invalid filters are the
// caller's fault; anything else is logged and reported as a 500 without detail.
func writeStoreError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if errors.Is(err, filter.ErrInvalidFilter) || errors.Is(err, ErrBadRequest) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	log.Error(r.Context(), "request failed",
		logger.String("op", op),
		logger.String("request_id", chimiddleware.GetReqID(r.Context())),
		logger.String("path", r.URL.Path),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", nil)
}
