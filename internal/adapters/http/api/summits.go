package api

import (
	"net/http"

	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/pkg/logger"
)

// SummitsHandler serves the valid catalog as JSON.
type SummitsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSummitsHandler creates a new summits handler.
func NewSummitsHandler(deps Dependencies, l logger.Logger) *SummitsHandler {
	return &SummitsHandler{deps: deps, logger: l}
}

type summitsResponse struct {
	Region  string         `json:"region"`
	Count   int            `json:"count"`
	Summits []model.Summit `json:"summits"`
}

// HandleGetSummits handles GET /api/summits requests.
func (h *SummitsHandler) HandleGetSummits(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summits"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	summits, err := h.deps.Summits(r.Context())
	if err != nil {
		status, code, err := reportError(op, err)
		h.logger.Error(r.Context(), "summit list failed",
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, summitsResponse{
		Region:  h.deps.Region(),
		Count:   len(summits),
		Summits: summits,
	})
}
