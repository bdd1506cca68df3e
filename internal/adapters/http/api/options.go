package api

import "github.com/okian/summitgap/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithTitle sets the dashboard page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		if title != "" {
			s.page.title = title
		}
	}
}

// WithTagline sets the footer line under the dashboard.
func WithTagline(tagline string) Option {
	return func(s *Server) {
		s.page.tagline = tagline
	}
}

// WithMapZoom sets the initial map zoom level.
func WithMapZoom(zoom int) Option {
	return func(s *Server) {
		if zoom > 0 {
			s.page.zoom = zoom
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
