// Package catalog narrows the raw regional summit list to the summits that
// currently score.
package catalog

import (
	"math"
	"time"

	"github.com/okian/summitgap/internal/domain/model"
)

// FilterValid keeps the records whose validTo lies strictly after now and
// converts them to model.Summit, preserving upstream order.
//
// Only the upper bound is checked: a summit whose validFrom is still in the
// future passes.
func FilterValid(raw []model.RawSummit, now time.Time) []model.Summit {
	now = now.UTC()
	nowISO := now.Format(time.RFC3339Nano)

	out := make([]model.Summit, 0, len(raw))
	for _, r := range raw {
		validTo, err := time.Parse(time.RFC3339, r.ValidTo)
		if err == nil {
			if !validTo.After(now) {
				continue
			}
		} else if r.ValidTo <= nowISO {
			// Unparseable timestamps fall back to ISO string ordering.
			continue
		}
		out = append(out, toSummit(r, validTo))
	}
	return out
}

func toSummit(r model.RawSummit, validTo time.Time) model.Summit {
	validFrom, _ := time.Parse(time.RFC3339, r.ValidFrom)
	return model.Summit{
		Code:      r.Code,
		Name:      r.Name,
		Latitude:  r.Coordinates.Latitude,
		Longitude: r.Coordinates.Longitude,
		Altitude:  int(math.Round(r.Altitude)),
		Points:    r.Points,
		ValidFrom: validFrom,
		ValidTo:   validTo,
	}
}
