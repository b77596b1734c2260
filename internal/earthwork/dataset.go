package earthwork

import (
	"sort"

	"github.com/fvbommel/sortorder"

	"github.com/verte-zerg/nivela/internal/model"
)

// Build normalizes raw rows in load order and collects the distinct
// category labels in first-seen order.
func Build(raw []model.RawRow) model.Dataset {
	rows := make([]model.NormalizedRow, len(raw))
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i, r := range raw {
		rows[i] = Normalize(r)
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	return model.Dataset{Rows: rows, Categories: categories}
}

// SortedCategories returns the dataset categories in natural order, so
// "K2+000" sorts before "K10+000".
func SortedCategories(ds model.Dataset) []string {
	out := append([]string(nil), ds.Categories...)
	sort.SliceStable(out, func(i, j int) bool {
		return sortorder.NaturalLess(out[i], out[j])
	})
	return out
}
