// Package marker holds the map presentation rules for missing summits.
package marker

import (
	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/internal/domain/types"
)

// SummitPageBase prefixes a summit code to form its public page.
const SummitPageBase = "https://sotl.as/summits/"

// Color maps summit points to a marker colour.
func Color(points int) string {
	switch points {
	case 1:
		return "lightgreen"
	case 2:
		return "green"
	case 4:
		return "darkgreen"
	case 6:
		return "orange"
	case 8:
		return "darkred"
	default:
		return "red"
	}
}

// Center returns the mean position of summits. ok is false for an empty slice.
func Center(summits []model.Summit) (types.Point, bool) {
	if len(summits) == 0 {
		return types.Point{}, false
	}
	var lat, lon float64
	for _, s := range summits {
		lat += s.Latitude
		lon += s.Longitude
	}
	n := float64(len(summits))
	return types.Point{Latitude: lat / n, Longitude: lon / n}, true
}

// Build returns one marker per summit, in input order.
func Build(summits []model.Summit) []types.Marker {
	out := make([]types.Marker, len(summits))
	for i, s := range summits {
		out[i] = types.Marker{
			Code:     s.Code,
			Name:     s.Name,
			Position: types.Point{Latitude: s.Latitude, Longitude: s.Longitude},
			Points:   s.Points,
			Color:    Color(s.Points),
			URL:      SummitPageBase + s.Code,
		}
	}
	return out
}
