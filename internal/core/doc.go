// Package core provides the business logic for browsing housing listings.
//
// This package is the heart of the listings browser, containing all domain
// logic independent of any UI or transport layer. It can be used by web
// handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Service: The main entry point for all operations (filtering, sorting,
//     paging, export, map rendering).
//   - Evaluator: Applies the filter state to a dataset and memoizes the
//     matching row set until the state changes.
//   - Render Limiter: A semaphore bounding how many map renders run at once.
//
// # Filter State
//
// Filters are held as a [FilterState]: numeric ranges for price, living
// space, beds, and household income, plus text predicates for city, state,
// and address. A zero bound or empty string means that predicate is unset.
// All active predicates must match for a row to be visible:
//
//	svc.SetPriceRange(100000, 250000)
//	svc.SetCity("spring")
//	page := svc.Listings(1, 50)
//
// Numeric predicates skip rows whose cell does not parse unless the service
// is constructed with StrictNumeric, which excludes them instead. Text
// predicates are case-insensitive substring matches, except State which
// matches exactly.
//
// # Sorting
//
// [Service.SetSort] orders the visible rows by one column, ascending or
// descending. Rows whose cell does not parse for a numeric column sort after
// all parseable rows in either direction. The sort is stable, so equal keys
// keep their dataset order.
//
// # Map Rendering
//
// [Service.RenderMap] snapshots the visible rows under the service lock,
// then renders the map document outside it, so slow renders never block
// filtering. Renders pass through the [RenderLimiter]; when all slots stay
// occupied past the wait deadline the caller receives [ErrTooManyRenders].
package core
