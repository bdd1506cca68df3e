// Package site serves the dashboard's embedded static assets.
package site

import (
	"context"
	"net/http"
	"strings"
)

// Prefix is the URL path the assets are mounted under.
const Prefix = "/static/"

// Register attaches the embedded asset routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(Prefix, http.StripPrefix(Prefix, noListing(http.FileServer(FS()))))
}

// noListing hides directory indexes; only files are served.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
