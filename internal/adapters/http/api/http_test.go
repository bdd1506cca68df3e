package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/summitgap/internal/adapters/http/api"
	service "github.com/okian/summitgap/internal/app"
	"github.com/okian/summitgap/internal/domain/marker"
	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/internal/domain/reconcile"
	"github.com/okian/summitgap/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies reconciles a fixed catalog in memory.
type mockDependencies struct {
	catalog   []model.Summit
	completes model.CodeSet
	s2s       model.CodeSet
	err       error
}

func (m *mockDependencies) Report(_ context.Context, view types.View) (types.Report, error) {
	if m.err != nil {
		return types.Report{}, m.err
	}
	completed := m.completes
	if view == types.ViewS2S {
		completed = m.s2s
	}
	res := reconcile.Reconcile(m.catalog, completed)
	rep := types.Report{
		View:        view,
		Region:      "GM/ES",
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Total:       res.Total,
		Completed:   res.Completed,
		Remaining:   res.Remaining(),
		Missing:     res.Missing,
		Markers:     marker.Build(res.Missing),
	}
	if c, ok := marker.Center(res.Missing); ok {
		rep.Center = &c
	}
	return rep, nil
}

func (m *mockDependencies) Summits(context.Context) ([]model.Summit, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

func (m *mockDependencies) Region() string { return "GM/ES" }

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		catalog: []model.Summit{
			{Code: "GM/ES-001", Name: "Ben Macdui", Latitude: 57.07, Longitude: -3.67, Altitude: 1309, Points: 10},
			{Code: "GM/ES-002", Name: "Braeriach", Latitude: 57.08, Longitude: -3.73, Altitude: 1296, Points: 8},
		},
		completes: model.NewCodeSet("GM/ES-001"),
		s2s:       model.NewCodeSet(),
	}
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true}}, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux(newDeps())

		Convey("Then health endpoint should serve metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "summitgap_dashboard_")
		})

		Convey("And metrics endpoint should serve the same registry", func() {
			w := get(mux, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint should return JSON", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("And unknown paths should be not found", func() {
			w := get(mux, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And non-GET requests should be not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/missing", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And a nil mux should panic", func() {
			server := api.NewServer(newDeps(), &mockStatsProvider{})
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestMissingHandler(t *testing.T) {
	Convey("Given the missing endpoint", t, func() {
		deps := newDeps()
		mux := newMux(deps)

		Convey("When no view is given", func() {
			w := get(mux, "/api/missing")

			Convey("Then the completes report is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var rep types.Report
				So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.View, ShouldEqual, types.ViewCompletes)
				So(rep.Completed, ShouldEqual, 1)
				So(rep.Remaining, ShouldEqual, 1)
				So(rep.Missing[0].Code, ShouldEqual, "GM/ES-002")
				So(rep.Markers[0].Color, ShouldEqual, "darkred")
			})
		})

		Convey("When the S2S view is requested", func() {
			w := get(mux, "/api/missing?view=s2s")

			Convey("Then the whole catalog is missing", func() {
				var rep types.Report
				So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.View, ShouldEqual, types.ViewS2S)
				So(rep.Remaining, ShouldEqual, 2)
				So(rep.Center, ShouldNotBeNil)
			})
		})

		Convey("When an unknown view is requested", func() {
			w := get(mux, "/api/missing?view=activators")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			})
		})

		Convey("When the service is not started", func() {
			deps.err = service.ErrNotStarted
			w := get(mux, "/api/missing")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, `"code":"unavailable"`)
			})
		})
	})
}

func TestSummitsHandler(t *testing.T) {
	Convey("Given the summits endpoint", t, func() {
		deps := newDeps()
		mux := newMux(deps)

		Convey("When requesting the catalog", func() {
			w := get(mux, "/api/summits")

			Convey("Then region, count and summits are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Region  string         `json:"region"`
					Count   int            `json:"count"`
					Summits []model.Summit `json:"summits"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Region, ShouldEqual, "GM/ES")
				So(body.Count, ShouldEqual, 2)
				So(body.Summits[1].Name, ShouldEqual, "Braeriach")
			})
		})

		Convey("When the service fails", func() {
			deps.err = service.ErrNotStarted
			w := get(mux, "/api/summits")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestDashboardHandler(t *testing.T) {
	Convey("Given the dashboard", t, func() {
		deps := newDeps()
		mux := newMux(deps, api.WithTitle("wenseth complete"), api.WithTagline("Get cracking GM/ES boys!"), api.WithMapZoom(9))

		Convey("When summits are missing", func() {
			w := get(mux, "/")
			body := w.Body.String()

			Convey("Then badges, table and map are rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(body, ShouldContainSubstring, "<title>wenseth complete</title>")
				So(body, ShouldContainSubstring, `id="completed">1<`)
				So(body, ShouldContainSubstring, `id="remaining">1<`)
				So(body, ShouldContainSubstring, "<td>Braeriach</td>")
				So(body, ShouldContainSubstring, "https://sotl.as/summits/GM/ES-002")
				So(body, ShouldContainSubstring, `id="map"`)
				So(body, ShouldContainSubstring, "darkred")
				So(body, ShouldContainSubstring, "Get cracking GM/ES boys!")
				So(body, ShouldNotContainSubstring, "<td>Ben Macdui</td>")
				So(body, ShouldNotContainSubstring, `id="all-done"`)
			})
		})

		Convey("When everything is completed", func() {
			deps.completes = model.NewCodeSet("GM/ES-001", "GM/ES-002")
			w := get(mux, "/dashboard")
			body := w.Body.String()

			Convey("Then the success banner replaces map and table", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, `id="all-done"`)
				So(body, ShouldContainSubstring, "completed all GM/ES summits!")
				So(body, ShouldNotContainSubstring, `id="map"`)
				So(body, ShouldNotContainSubstring, `id="missing"`)
			})
		})

		Convey("When the S2S view is selected", func() {
			w := get(mux, "/?view=s2s")

			Convey("Then the S2S tab is active", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `class="active">Summit-to-summit`)
				So(w.Body.String(), ShouldContainSubstring, `id="remaining">2<`)
			})
		})

		Convey("When the view is unknown", func() {
			w := get(mux, "/?view=nope")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service is unavailable", func() {
			deps.err = service.ErrNotStarted
			w := get(mux, "/dashboard")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))

		Convey("When the client sends no id", func() {
			w := get(h, "/")

			Convey("Then a UUID is minted and echoed", func() {
				So(seen, ShouldHaveLength, 36)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When the client sends an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is reused", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("Then an empty context has no id", func() {
			So(api.RequestIDFrom(context.Background()), ShouldEqual, "")
		})
	})
}
