package core

// filter.go implements the predicate filter evaluator.
//
// The Evaluator owns FilterState and the visible row set derived from it.
// Each setter mutates one field and marks the row set stale; the next read
// recomputes it in a single pass, so a read after any mutation always
// reflects the latest state. Numeric predicates are fail-open: a row whose
// cell is missing or unparseable passes rather than silently disappearing.
// Strict mode flips that to exclude-on-error.

import (
	"strings"

	"housemap/internal/dataset"
	"housemap/internal/schema"
)

// rowPredicate reports whether one dataset row is visible.
type rowPredicate func(row int) bool

// Evaluator decides which rows of one dataset pass the current FilterState.
// Not safe for concurrent use; the Service serializes access to it.
type Evaluator struct {
	ds     *dataset.Dataset
	state  FilterState
	strict bool

	visible []int
	dirty   bool
}

// NewEvaluator returns an evaluator over ds with no predicates active.
// When strict is true, numeric predicates exclude rows whose cell is
// missing or unparseable instead of accepting them.
func NewEvaluator(ds *dataset.Dataset, strict bool) *Evaluator {
	return &Evaluator{ds: ds, strict: strict, dirty: true}
}

// SetPriceRange bounds the Price predicate. A bound of 0 is unset.
func (e *Evaluator) SetPriceRange(min, max float64) {
	e.state.Price = Range{Min: min, Max: max}
	e.dirty = true
}

// SetSpaceRange bounds the Living Space predicate. A bound of 0 is unset.
func (e *Evaluator) SetSpaceRange(min, max float64) {
	e.state.Space = Range{Min: min, Max: max}
	e.dirty = true
}

// SetBedsRange bounds the Beds predicate. A bound of 0 is unset.
func (e *Evaluator) SetBedsRange(min, max float64) {
	e.state.Beds = Range{Min: min, Max: max}
	e.dirty = true
}

// SetIncomeRange bounds the Median Household Income predicate.
// A bound of 0 is unset.
func (e *Evaluator) SetIncomeRange(min, max float64) {
	e.state.Income = Range{Min: min, Max: max}
	e.dirty = true
}

// SetCity sets the case-insensitive City substring. Empty unsets it.
func (e *Evaluator) SetCity(needle string) {
	e.state.City = needle
	e.dirty = true
}

// SetState sets the exact State match. Empty unsets it.
func (e *Evaluator) SetState(literal string) {
	e.state.State = literal
	e.dirty = true
}

// SetAddress sets the case-insensitive Address substring. Empty unsets it.
func (e *Evaluator) SetAddress(needle string) {
	e.state.Address = needle
	e.dirty = true
}

// Reset returns every predicate to unset.
func (e *Evaluator) Reset() {
	e.state = FilterState{}
	e.dirty = true
}

// State returns a copy of the current FilterState.
func (e *Evaluator) State() FilterState {
	return e.state
}

// restore re-applies a FilterState captured before a dataset swap.
func (e *Evaluator) restore(st FilterState) {
	e.state = st
	e.dirty = true
}

// VisibleRows returns the indices of rows passing every active predicate,
// in insertion order. The slice is shared with the evaluator; callers must
// not modify it.
func (e *Evaluator) VisibleRows() []int {
	if e.dirty {
		e.recompute()
	}
	return e.visible
}

// recompute performs the single full pass over all rows.
func (e *Evaluator) recompute() {
	preds := e.activePredicates()
	visible := make([]int, 0, e.ds.RowCount())

rows:
	for i := 0; i < e.ds.RowCount(); i++ {
		for _, p := range preds {
			if !p(i) {
				continue rows
			}
		}
		visible = append(visible, i)
	}

	e.visible = visible
	e.dirty = false
}

// activePredicates builds one closure per active FilterState field.
// Inactive fields contribute nothing, so row acceptance is the AND of what
// remains.
func (e *Evaluator) activePredicates() []rowPredicate {
	var preds []rowPredicate
	add := func(p rowPredicate) {
		if p != nil {
			preds = append(preds, p)
		}
	}

	add(e.numericPredicate(schema.ColPrice, e.state.Price))
	add(e.numericPredicate(schema.ColSpace, e.state.Space))
	add(e.numericPredicate(schema.ColBeds, e.state.Beds))
	add(e.numericPredicate(schema.ColIncome, e.state.Income))
	add(e.substringPredicate(schema.ColCity, e.state.City))
	add(e.exactPredicate(schema.ColState, e.state.State))
	add(e.substringPredicate(schema.ColAddress, e.state.Address))
	return preds
}

// numericPredicate builds the range test for one numeric column, or nil when
// the range is unset. An absent column deactivates the predicate entirely,
// even in strict mode; strict only changes what happens to a present cell
// that did not parse.
func (e *Evaluator) numericPredicate(column string, r Range) rowPredicate {
	if !r.active() {
		return nil
	}
	col, ok := e.ds.Column(column)
	if !ok {
		return nil
	}
	strict := e.strict
	return func(row int) bool {
		v, ok := col[row].Float()
		if !ok {
			return !strict
		}
		return r.contains(v)
	}
}

// substringPredicate builds the case-insensitive containment test, or nil
// when the needle is empty. An absent column stringifies as "", so an
// active needle excludes every row.
func (e *Evaluator) substringPredicate(column, needle string) rowPredicate {
	if needle == "" {
		return nil
	}
	col, ok := e.ds.Column(column)
	if !ok {
		return func(int) bool { return false }
	}
	needle = strings.ToLower(needle)
	return func(row int) bool {
		return strings.Contains(strings.ToLower(col[row].String()), needle)
	}
}

// exactPredicate builds the exact-match test, or nil when the literal is
// empty. The comparison is against the raw cell spelling, case-sensitive.
func (e *Evaluator) exactPredicate(column, literal string) rowPredicate {
	if literal == "" {
		return nil
	}
	col, ok := e.ds.Column(column)
	if !ok {
		return func(int) bool { return false }
	}
	return func(row int) bool {
		return col[row].String() == literal
	}
}
