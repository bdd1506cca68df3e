package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/summitgap/internal/domain/marker"
	"github.com/okian/summitgap/internal/domain/types"
	"github.com/okian/summitgap/pkg/logger"
)

// dashboardTemplate is parsed once from the embedded static files.
var dashboardTemplate = template.Must(
	template.New("dashboard.html").
		Funcs(template.FuncMap{
			"summitURL": func(code string) string { return marker.SummitPageBase + code },
		}).
		ParseFS(dashboardFS, "dashboard.html"),
)

// dashboardHandler renders the reconciliation report as an HTML page.
type dashboardHandler struct {
	deps   Dependencies
	page   pageSettings
	logger logger.Logger
}

func newDashboardHandler(deps Dependencies, page pageSettings, l logger.Logger) *dashboardHandler {
	return &dashboardHandler{deps: deps, page: page, logger: l}
}

type viewTab struct {
	Value  types.View
	Label  string
	Active bool
}

type dashboardData struct {
	Title   string
	Tagline string
	Zoom    int
	Views   []viewTab
	Report  types.Report
}

// HandleDashboard handles GET / and GET /dashboard, optionally with
// ?view=completes|s2s.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	if r.Method != http.MethodGet || (r.URL.Path != "/" && r.URL.Path != "/dashboard") {
		http.NotFound(w, r)
		return
	}

	view, err := types.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		status, _, err := reportError(op, err)
		http.Error(w, err.Error(), status)
		return
	}
	rep, err := h.deps.Report(r.Context(), view)
	if err != nil {
		status, _, err := reportError(op, err)
		h.logger.Error(r.Context(), "dashboard report failed",
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		http.Error(w, err.Error(), status)
		return
	}

	data := dashboardData{
		Title:   h.page.title,
		Tagline: h.page.tagline,
		Zoom:    h.page.zoom,
		Report:  rep,
	}
	for _, v := range []types.View{types.ViewCompletes, types.ViewS2S} {
		data.Views = append(data.Views, viewTab{Value: v, Label: v.Label(), Active: v == view})
	}

	// Render to a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		err = fmt.Errorf("%s: %w: %w", op, ErrRender, err)
		h.logger.Error(r.Context(), "dashboard render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
