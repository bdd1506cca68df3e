// Package types contains common types used across the application
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/summitgap/internal/domain/model"
)

// ErrUnknownView is returned by ParseView for anything but the known views.
var ErrUnknownView = errors.New("unknown view")

// View selects which completion set a report is reconciled against.
type View string

// Known views.
const (
	ViewCompletes View = "completes"
	ViewS2S       View = "s2s"
)

// ParseView maps user input to a View. Empty input means ViewCompletes.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewCompletes:
		return ViewCompletes, nil
	case ViewS2S:
		return ViewS2S, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Label is the human heading for the view.
func (v View) Label() string {
	if v == ViewS2S {
		return "Summit-to-summit"
	}
	return "Completes"
}

// Point is a WGS 84 position.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Marker is one map pin for a missing summit.
type Marker struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position Point  `json:"position"`
	Points   int    `json:"points"`
	Color    string `json:"color"`
	URL      string `json:"url"`
}

// Report is everything the dashboard renders for one view.
type Report struct {
	View        View           `json:"view"`
	Region      string         `json:"region"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	Remaining   int            `json:"remaining"`
	Missing     []model.Summit `json:"missing"`
	Center      *Point         `json:"center,omitempty"`
	Markers     []Marker       `json:"markers"`
}

// AllDone reports whether nothing is left to activate.
func (r Report) AllDone() bool { return r.Remaining == 0 }
