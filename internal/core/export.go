package core

import "housemap/internal/dataset"

// Materialize projects the visible rows as records, in visible order.
// It is a pure projection: filtering and ordering happened upstream, and
// the result reproduces them exactly.
func Materialize(visible []int, ds *dataset.Dataset) []dataset.Record {
	out := make([]dataset.Record, 0, len(visible))
	for _, i := range visible {
		out = append(out, ds.Row(i))
	}
	return out
}
