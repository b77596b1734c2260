package earthwork

import "github.com/verte-zerg/nivela/internal/model"

// Options tunes Compute.
type Options struct {
	// SortByAbscissa sorts the filtered rows before integrating. Off by
	// default: rows are integrated in workbook order.
	SortByAbscissa bool
}

// Compute filters the dataset and, unless a filtered row has a positive cut
// depth, integrates cut volumes over the filtered rows.
func Compute(ds model.Dataset, spec model.FilterSpec, opts Options) model.Result {
	rows := Filter(ds, spec)
	if opts.SortByAbscissa {
		rows = SortByAbscissa(rows)
	}
	if HasPositiveDifference(rows) {
		return model.InvalidResult{Rows: rows}
	}
	volumes, totals := Integrate(rows)
	return model.ValidResult{Rows: volumes, Totals: totals}
}
