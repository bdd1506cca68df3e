// Package reconcile computes which valid summits are still missing from a
// completion set.
package reconcile

import "github.com/okian/summitgap/internal/domain/model"

// Result is one reconciliation pass.
type Result struct {
	// Missing holds catalog entries absent from the completion set, in
	// catalog order.
	Missing []model.Summit
	// Total is the length of the catalog the pass ran on.
	Total int
	// Completed is Total minus len(Missing).
	Completed int
}

// Remaining is the number of missing summits.
func (r Result) Remaining() int { return len(r.Missing) }

// Reconcile walks catalog left to right and keeps every record whose code is
// not in completed. Nothing is sorted or deduplicated; duplicate codes pass
// through independently.
func Reconcile(catalog []model.Summit, completed model.CodeSet) Result {
	missing := make([]model.Summit, 0, len(catalog))
	for _, s := range catalog {
		if !completed.Has(s.Code) {
			missing = append(missing, s)
		}
	}
	total := len(catalog)
	return Result{
		Missing:   missing,
		Total:     total,
		Completed: total - len(missing),
	}
}
