package geomap

import (
	"math/rand"
	"sort"
)

// sampleSeed fixes the sampling PRNG so repeated renders of the same row
// set and size always pick the identical subset.
const sampleSeed = 42

// Sample returns at most n of the given rows, chosen by a seeded
// shuffle-and-take, then restored to their input relative order. n <= 0 or
// a row count within n returns a copy of the input unchanged.
func Sample(rows []int, n int) []int {
	if n <= 0 || len(rows) <= n {
		out := make([]int, len(rows))
		copy(out, rows)
		return out
	}

	// Shuffle positions, not values, so the kept rows can be replayed in
	// input order without a lookup table.
	pos := make([]int, len(rows))
	for i := range pos {
		pos[i] = i
	}
	rng := rand.New(rand.NewSource(sampleSeed))
	rng.Shuffle(len(pos), func(i, j int) {
		pos[i], pos[j] = pos[j], pos[i]
	})

	pos = pos[:n]
	sort.Ints(pos)

	out := make([]int, n)
	for i, p := range pos {
		out[i] = rows[p]
	}
	return out
}
