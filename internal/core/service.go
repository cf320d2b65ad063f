package core

import (
	"context"
	"sync"
	"time"

	"housemap/internal/dataset"
	"housemap/internal/geomap"
	"housemap/internal/schema"
)

// Listing page bounds.
const (
	DefaultPerPage = 50
	MaxPerPage     = 500
)

// Service owns the single-session state: the current dataset, the filter
// evaluator, and the sort state. Every mutation and read goes through one
// mutex, so each operation runs to completion before the next is accepted.
// Renders snapshot the visible rows under the lock and run outside it; the
// dataset is immutable, so the snapshot stays consistent for the whole
// render.
type Service struct {
	renderer *geomap.Renderer
	limiter  *RenderLimiter
	strict   bool

	mu   sync.Mutex
	ds   *dataset.Dataset
	eval *Evaluator
	sort SortState
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	StrictNumeric        bool
	MaxConcurrentRenders int
	MaxRenderWait        time.Duration
}

// NewService creates a Service over an initial dataset.
func NewService(ds *dataset.Dataset, renderer *geomap.Renderer, opts ServiceOptions) *Service {
	return &Service{
		renderer: renderer,
		limiter:  NewRenderLimiter(opts.MaxConcurrentRenders, opts.MaxRenderWait),
		strict:   opts.StrictNumeric,
		ds:       ds,
		eval:     NewEvaluator(ds, opts.StrictNumeric),
	}
}

// ReplaceDataset swaps in a freshly loaded dataset wholesale. Filter and
// sort settings survive the swap; the visible row set is recomputed against
// the new data on the next read.
func (s *Service) ReplaceDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.eval.State()
	s.ds = ds
	s.eval = NewEvaluator(ds, s.strict)
	s.eval.restore(st)
}

// SetPriceRange bounds the Price predicate. A bound of 0 is unset.
func (s *Service) SetPriceRange(min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetPriceRange(min, max)
}

// SetSpaceRange bounds the Living Space predicate. A bound of 0 is unset.
func (s *Service) SetSpaceRange(min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetSpaceRange(min, max)
}

// SetBedsRange bounds the Beds predicate. A bound of 0 is unset.
func (s *Service) SetBedsRange(min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetBedsRange(min, max)
}

// SetIncomeRange bounds the Median Household Income predicate.
// A bound of 0 is unset.
func (s *Service) SetIncomeRange(min, max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetIncomeRange(min, max)
}

// SetCity sets the case-insensitive City substring filter.
func (s *Service) SetCity(needle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetCity(needle)
}

// SetState sets the exact State filter.
func (s *Service) SetState(literal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetState(literal)
}

// SetAddress sets the case-insensitive Address substring filter.
func (s *Service) SetAddress(needle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.SetAddress(needle)
}

// ResetFilters returns every predicate to unset.
func (s *Service) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eval.Reset()
}

// Filters returns a copy of the current FilterState.
func (s *Service) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.State()
}

// SetSort sets the active sort. An empty column restores insertion order;
// any direction other than "desc" sorts ascending.
func (s *Service) SetSort(column string, dir SortDir) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir != SortDesc {
		dir = SortAsc
	}
	s.sort = SortState{Column: column, Dir: dir}
}

// Sort returns the active sort.
func (s *Service) Sort() SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// visibleSorted returns a fresh slice of the visible rows in the current
// sort order. Caller must hold s.mu.
func (s *Service) visibleSorted() []int {
	return SortRows(s.eval.VisibleRows(), s.ds, s.sort.Column, s.sort.Dir)
}

// VisibleRows returns the visible row indices in the current sort order.
func (s *Service) VisibleRows() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleSorted()
}

// VisibleCount returns how many rows pass the current FilterState.
func (s *Service) VisibleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.eval.VisibleRows())
}

// RowCount returns the dataset's total row count.
func (s *Service) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.RowCount()
}

// Columns returns the dataset's column names in load order.
func (s *Service) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.Columns()
}

// Stats returns the load statistics of the current dataset.
func (s *Service) Stats() dataset.LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.Stats()
}

// States returns the distinct State values for the exact-match filter.
func (s *Service) States() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.DistinctStrings(schema.ColState)
}

// Listings returns one display page of the visible rows. Page numbers
// outside the valid range clamp to the nearest page.
func (s *Service) Listings(page, perPage int) ListingPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	visible := s.visibleSorted()

	totalPages := (len(visible) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(visible) {
		end = len(visible)
	}

	columns := s.ds.Columns()
	rows := make([][]string, 0, end-start)
	for _, i := range visible[start:end] {
		row := make([]string, len(columns))
		for c, name := range columns {
			row[c] = s.ds.ValueAt(name, i).String()
		}
		rows = append(rows, row)
	}

	return ListingPage{
		Columns:    columns,
		Rows:       rows,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Visible:    len(visible),
		Total:      s.ds.RowCount(),
		Sort:       s.sort,
	}
}

// Export materializes the visible rows, in the current sort order, for CSV
// serialization. The projection runs outside the lock against the immutable
// dataset.
func (s *Service) Export() ([]string, []dataset.Record) {
	s.mu.Lock()
	visible := s.visibleSorted()
	ds := s.ds
	s.mu.Unlock()

	return ds.Columns(), Materialize(visible, ds)
}

// RenderMap renders a new map artifact from the current visible rows.
// Concurrent renders are bounded by the limiter; when saturated the call
// fails with ErrTooManyRenders after the configured wait.
func (s *Service) RenderMap(ctx context.Context, opts geomap.Options) (*geomap.Artifact, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	s.mu.Lock()
	visible := s.visibleSorted()
	ds := s.ds
	s.mu.Unlock()

	return s.renderer.Render(ds, visible, opts)
}

// RenderLive regenerates the live map slot from the current visible rows.
func (s *Service) RenderLive(ctx context.Context) (*geomap.Artifact, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	s.mu.Lock()
	visible := s.visibleSorted()
	ds := s.ds
	s.mu.Unlock()

	return s.renderer.RenderLive(ds, visible)
}

// RenderStatus exposes the limiter state for health reporting.
func (s *Service) RenderStatus() RenderLimiterStatus {
	return s.limiter.Status()
}

// DrainRenders blocks until in-flight renders finish, for graceful
// shutdown.
func (s *Service) DrainRenders(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
