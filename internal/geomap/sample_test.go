package geomap

import "testing"

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================================
// Sample Tests
// ============================================================================

func TestSample_Deterministic(t *testing.T) {
	rows := make([]int, 100)
	for i := range rows {
		rows[i] = i
	}

	first := Sample(rows, 50)
	second := Sample(rows, 50)

	if len(first) != 50 {
		t.Fatalf("len = %d, want 50", len(first))
	}
	if !equalInts(first, second) {
		t.Errorf("repeated sampling differs:\n%v\n%v", first, second)
	}
}

func TestSample_PreservesInputOrder(t *testing.T) {
	rows := []int{9, 4, 17, 2, 33, 8, 21, 5}

	got := Sample(rows, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	// The sample must be a subsequence of the input.
	j := 0
	for _, r := range rows {
		if j < len(got) && got[j] == r {
			j++
		}
	}
	if j != len(got) {
		t.Errorf("Sample(%v) = %v is not in input order", rows, got)
	}
}

func TestSample_WithinBoundsReturnsCopy(t *testing.T) {
	rows := []int{1, 2, 3}

	tests := []struct {
		name string
		n    int
	}{
		{name: "n zero means no sampling", n: 0},
		{name: "n equals length", n: 3},
		{name: "n exceeds length", n: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(rows, tt.n)
			if !equalInts(got, rows) {
				t.Errorf("Sample(%v, %d) = %v, want unchanged", rows, tt.n, got)
			}
			got[0] = 99
			if rows[0] == 99 {
				t.Error("Sample returned the input slice, not a copy")
			}
		})
	}
}

func TestSample_Subset(t *testing.T) {
	rows := []int{10, 20, 30, 40, 50, 60}
	members := make(map[int]bool, len(rows))
	for _, r := range rows {
		members[r] = true
	}

	for _, r := range Sample(rows, 3) {
		if !members[r] {
			t.Errorf("sampled %d not in input %v", r, rows)
		}
	}
}
