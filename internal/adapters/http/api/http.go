// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/summitgap/internal/app"
	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/internal/domain/types"
	"github.com/okian/summitgap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Report reconciles the valid catalog against one completion view.
	Report(ctx context.Context, view types.View) (types.Report, error)
	// Summits returns the currently valid catalog.
	Summits(ctx context.Context) ([]model.Summit, error)
	// Region names the catalog, e.g. "GM/ES".
	Region() string
}

// pageSettings controls the dashboard chrome.
type pageSettings struct {
	title   string
	tagline string
	zoom    int
}

// Server wires HTTP routes for the dashboard and its JSON API.
type Server struct {
	page   pageSettings
	logger logger.Logger

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	missingHandler   *MissingHandler
	summitsHandler   *SummitsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		page: pageSettings{
			title:   "wenseth complete",
			tagline: "Get cracking GM/ES boys!",
			zoom:    8,
		},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.missingHandler = NewMissingHandler(deps, s.logger)
	s.summitsHandler = NewSummitsHandler(deps, s.logger)
	s.dashboardHandler = newDashboardHandler(deps, s.page, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/missing", MetricsMiddleware(s.missingHandler.HandleGetMissing, "missing"))
	mux.HandleFunc("/api/summits", MetricsMiddleware(s.summitsHandler.HandleGetSummits, "summits"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
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

// reportError maps a service error onto a status and error code.
func reportError(op string, err error) (int, string, error) {
	switch {
	case errors.Is(err, types.ErrUnknownView):
		return http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err)
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable", fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	default:
		return http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err)
	}
}
