package core

import (
	"sort"

	"housemap/internal/dataset"
	"housemap/internal/schema"
)

// SortRows returns the visible rows reordered by the named column. The sort
// is stable: rows comparing equal keep their prior relative order. Numeric
// columns compare by parsed value with missing and unparseable cells after
// every number under both directions; text columns compare case-sensitively
// with Missing last, again under both directions. An empty or unknown
// column returns the input order. The input slice is never modified.
func SortRows(visible []int, ds *dataset.Dataset, column string, dir SortDir) []int {
	out := make([]int, len(visible))
	copy(out, visible)

	if column == "" {
		return out
	}
	col, ok := ds.Column(column)
	if !ok {
		return out
	}

	kind := ds.Kind(column)
	numeric := kind == schema.FieldNumeric || kind == schema.FieldCoordinate

	sort.SliceStable(out, func(i, j int) bool {
		a, b := col[out[i]], col[out[j]]
		c := dataset.Compare(a, b, numeric)
		if dir != SortDesc {
			return c < 0
		}
		// Descending flips only comparisons between two sortable cells;
		// unsortable cells stay last.
		as, bs := sortable(a, numeric), sortable(b, numeric)
		if as != bs {
			return as
		}
		return as && c > 0
	})
	return out
}

// sortable reports whether a cell carries a comparable key for the column
// kind: a parsed number for numeric columns, any present value for text.
func sortable(v dataset.Value, numeric bool) bool {
	if numeric {
		_, ok := v.Float()
		return ok
	}
	return !v.IsMissing()
}
