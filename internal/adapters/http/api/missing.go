package api

import (
	"net/http"

	"github.com/okian/summitgap/internal/domain/types"
	"github.com/okian/summitgap/pkg/logger"
)

// MissingHandler serves reconciliation reports as JSON.
type MissingHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewMissingHandler creates a new missing-summits handler.
func NewMissingHandler(deps Dependencies, l logger.Logger) *MissingHandler {
	return &MissingHandler{deps: deps, logger: l}
}

// HandleGetMissing handles GET /api/missing?view=completes|s2s requests.
func (h *MissingHandler) HandleGetMissing(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_missing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	view, err := types.ParseView(r.URL.Query().Get("view"))
	if err == nil {
		var rep types.Report
		rep, err = h.deps.Report(r.Context(), view)
		if err == nil {
			writeJSON(w, http.StatusOK, rep)
			return
		}
	}

	status, code, err := reportError(op, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "missing report failed",
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
