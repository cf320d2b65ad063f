package dataset

// value.go defines the tagged variant stored in every dataset cell.
//
// Each cell is classified once at load time as Number, Text, or Missing.
// Numbers keep the raw source text alongside the parsed float so that
// string-based predicates (substring, exact match) and export round-trip
// the input exactly, while numeric predicates and sorts use the parsed
// value. Missing covers empty cells and cells padded in for short rows.

import (
	"regexp"
	"strconv"
	"strings"
)

// ValueKind discriminates the cell variant.
type ValueKind uint8

const (
	Missing ValueKind = iota
	Number
	Text
)

// Value is one dataset cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseValue classifies a cleaned cell string.
// Empty input is Missing; input that parses as a number after currency and
// separator cleanup is Number; everything else is Text.
func ParseValue(cell string) Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Value{Kind: Missing}
	}
	if f, ok := parseNumeric(cell); ok {
		return Value{Kind: Number, Num: f, Raw: cell}
	}
	return Value{Kind: Text, Raw: cell}
}

// parseNumeric converts a string to a float64.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative).
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Float returns the numeric value of a Number cell.
// Text and Missing cells report ok=false.
func (v Value) Float() (float64, bool) {
	if v.Kind != Number {
		return 0, false
	}
	return v.Num, true
}

// String returns the raw source text of the cell, or "" for Missing.
// Numbers stringify as their original spelling, not a reformatted float.
func (v Value) String() string {
	return v.Raw
}

// IsMissing reports whether the cell held no value.
func (v Value) IsMissing() bool {
	return v.Kind == Missing
}

// Compare imposes a total order on two cells of one column.
//
// For numeric columns, Number cells order by parsed value and every
// non-Number cell (Missing or unparseable Text) orders after all Numbers;
// non-Number cells compare equal among themselves so a stable sort keeps
// their prior order. For text columns the raw strings compare
// case-sensitively, with Missing after all present values.
func Compare(a, b Value, numeric bool) int {
	if numeric {
		af, aok := a.Float()
		bf, bok := b.Float()
		switch {
		case aok && bok:
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	}

	am, bm := a.IsMissing(), b.IsMissing()
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}
	return strings.Compare(a.Raw, b.Raw)
}
