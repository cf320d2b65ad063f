package core

// Range bounds a numeric predicate. A bound equal to 0 is unset, matching
// the no-filter default of the input fields, so a price minimum of 0 means
// "no minimum".
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// active reports whether either bound is set.
func (r Range) active() bool {
	return r.Min != 0 || r.Max != 0
}

// contains tests a parsed value against the set bounds.
func (r Range) contains(v float64) bool {
	if r.Min != 0 && v < r.Min {
		return false
	}
	if r.Max != 0 && v > r.Max {
		return false
	}
	return true
}

// FilterState holds the current bounds of every predicate. The zero value
// filters nothing: zero ranges and empty strings are unset. Owned by the
// Evaluator; mutate it only through the setter methods.
type FilterState struct {
	Price  Range `json:"price"`
	Space  Range `json:"space"`
	Beds   Range `json:"beds"`
	Income Range `json:"income"`

	City    string `json:"city"`    // case-insensitive substring
	State   string `json:"state"`   // exact match
	Address string `json:"address"` // case-insensitive substring
}

// SortDir selects a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SortState names the active sort. An empty Column means insertion order.
type SortState struct {
	Column string  `json:"column"`
	Dir    SortDir `json:"dir"`
}

// ListingPage is one display page of the visible rows. Cells are the raw
// source spellings, row-major, in Columns order.
type ListingPage struct {
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
	Visible    int        `json:"visible"` // rows passing the current FilterState
	Total      int        `json:"total"`   // rows in the dataset
	Sort       SortState  `json:"sort"`
}
