package earthwork

import (
	"sort"

	"github.com/verte-zerg/nivela/internal/model"
)

// Filter returns the rows matching spec in dataset order. An empty result
// is a valid outcome.
func Filter(ds model.Dataset, spec model.FilterSpec) []model.NormalizedRow {
	out := make([]model.NormalizedRow, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if spec.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}

// HasPositiveDifference reports whether any row has a strictly positive cut
// depth. Zero depths do not count; an empty sequence is valid.
func HasPositiveDifference(rows []model.NormalizedRow) bool {
	for _, row := range rows {
		if row.HasPositiveDifference() {
			return true
		}
	}
	return false
}

// Ascending reports whether abscissas never decrease along rows.
func Ascending(rows []model.NormalizedRow) bool {
	return sort.SliceIsSorted(rows, func(i, j int) bool {
		return rows[i].Abscissa < rows[j].Abscissa
	})
}

// SortByAbscissa returns a copy of rows stably sorted by abscissa.
func SortByAbscissa(rows []model.NormalizedRow) []model.NormalizedRow {
	out := append([]model.NormalizedRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Abscissa < out[j].Abscissa
	})
	return out
}
