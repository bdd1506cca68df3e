// Package model contains domain models passed between layers.
package model

import "time"

// Summit is a valid summit of the regional catalog.
type Summit struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  int       `json:"altitude"`
	Points    int       `json:"points"`
	ValidFrom time.Time `json:"validFrom"`
	ValidTo   time.Time `json:"validTo"`
}

// Coordinates mirrors the nested position object of the summits endpoint.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawSummit is a summit record as served by the regions endpoint.
// Timestamps stay strings until the catalog filter interprets them.
type RawSummit struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Altitude    float64     `json:"altitude"`
	Points      int         `json:"points"`
	ValidFrom   string      `json:"validFrom"`
	ValidTo     string      `json:"validTo"`
}

// Complete is one row of the completes and S2S endpoints.
type Complete struct {
	SummitCode string `json:"SummitCode"`
}

// CodeSet is a membership-only set of summit codes.
type CodeSet map[string]struct{}

// NewCodeSet builds a set from codes.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether code is in the set. A nil set contains nothing.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of codes.
func (s CodeSet) Len() int { return len(s) }
