package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"housemap/internal/core"
	"housemap/internal/geomap"
	"housemap/internal/logging"
)

// exportFlushEvery bounds how many rows the CSV export buffers before
// flushing to the client.
const exportFlushEvery = 500

// intParam parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intParam(q url.Values, name string, def int) int {
	val := q.Get(name)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

// floatParam parses a float query parameter; absent or malformed values
// read as 0, the unset bound.
func floatParam(q url.Values, name string) float64 {
	f, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil {
		return 0
	}
	return f
}

// applySort updates the session sort when the request names one.
func (s *Server) applySort(q url.Values) {
	if q.Has("sort") {
		s.service.SetSort(q.Get("sort"), core.SortDir(q.Get("dir")))
	}
}

// handleListings returns one display page of the visible rows. A sort/dir
// pair in the query updates the session sort before the page is read.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.applySort(q)

	page := s.service.Listings(intParam(q, "page", 1), intParam(q, "per_page", 0))
	writeJSON(w, page)
}

// filterParams is the flat wire form of the filter state, shared by the
// JSON API and the index form. Zero or empty means unset.
type filterParams struct {
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MinSpace  float64 `json:"min_space"`
	MaxSpace  float64 `json:"max_space"`
	MinBeds   float64 `json:"min_beds"`
	MaxBeds   float64 `json:"max_beds"`
	MinIncome float64 `json:"min_income"`
	MaxIncome float64 `json:"max_income"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Address   string  `json:"address"`
}

// apply replaces the full filter state with these params.
func (p filterParams) apply(svc *core.Service) {
	svc.SetPriceRange(p.MinPrice, p.MaxPrice)
	svc.SetSpaceRange(p.MinSpace, p.MaxSpace)
	svc.SetBedsRange(p.MinBeds, p.MaxBeds)
	svc.SetIncomeRange(p.MinIncome, p.MaxIncome)
	svc.SetCity(p.City)
	svc.SetState(p.State)
	svc.SetAddress(p.Address)
}

// filterParamsFromQuery reads the flat filter fields out of a query string.
func filterParamsFromQuery(q url.Values) filterParams {
	return filterParams{
		MinPrice:  floatParam(q, "min_price"),
		MaxPrice:  floatParam(q, "max_price"),
		MinSpace:  floatParam(q, "min_space"),
		MaxSpace:  floatParam(q, "max_space"),
		MinBeds:   floatParam(q, "min_beds"),
		MaxBeds:   floatParam(q, "max_beds"),
		MinIncome: floatParam(q, "min_income"),
		MaxIncome: floatParam(q, "max_income"),
		City:      q.Get("city"),
		State:     q.Get("state"),
		Address:   q.Get("address"),
	}
}

// filterStateResponse reports the filter state plus the row counts it
// produces, so clients can refresh their summary line in one round trip.
type filterStateResponse struct {
	Filters core.FilterState `json:"filters"`
	Visible int              `json:"visible"`
	Total   int              `json:"total"`
}

func (s *Server) filterState() filterStateResponse {
	return filterStateResponse{
		Filters: s.service.Filters(),
		Visible: s.service.VisibleCount(),
		Total:   s.service.RowCount(),
	}
}

func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.filterState())
}

// handleSetFilters replaces the whole filter state from a flat JSON body.
// Omitted fields are zero, which unsets that predicate.
func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var params filterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return
	}
	params.apply(s.service)

	resp := s.filterState()
	logging.FromContext(r.Context()).Info("filters updated",
		"visible", resp.Visible, "total", resp.Total)
	writeJSON(w, resp)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.service.ResetFilters()
	writeJSON(w, s.filterState())
}

type statesResponse struct {
	States []string `json:"states"`
}

// handleStates returns the distinct State values for the exact-match
// dropdown.
func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statesResponse{States: s.service.States()})
}

type stylesResponse struct {
	Styles  []string `json:"styles"`
	Default string   `json:"default"`
}

// handleStyles returns the selectable tile styles for the map style
// dropdown.
func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stylesResponse{Styles: geomap.Styles(), Default: geomap.DefaultStyle})
}

// handleExport streams the visible rows, in the current sort order, as a
// CSV download. A sort/dir pair in the query updates the session sort first.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.applySort(r.URL.Query())
	columns, records := s.service.Export()

	filename := fmt.Sprintf("listings_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	cw.Write(columns)

	flusher, _ := w.(http.Flusher)
	row := make([]string, len(columns))
	for i, rec := range records {
		for c, name := range columns {
			row[c] = rec[name].String()
		}
		if err := cw.Write(row); err != nil {
			logging.FromContext(r.Context()).Warn("export aborted",
				"rows_written", i, "error", err)
			return
		}
		if (i+1)%exportFlushEvery == 0 {
			cw.Flush()
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
	cw.Flush()

	logging.FromContext(r.Context()).Info("export complete", "rows", len(records))
}

// mapRequest is the render request body. Zero values fall back to the
// configured defaults.
type mapRequest struct {
	Style  string `json:"style"`
	Zoom   int    `json:"zoom"`
	Sample int    `json:"sample"`
}

// mapResponse is a rendered artifact plus the route it is served from.
type mapResponse struct {
	*geomap.Artifact
	URL string `json:"url"`
}

// handleRenderMap renders a new map artifact from the current visible rows.
// An empty body renders with the configured defaults.
func (s *Server) handleRenderMap(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return
	}

	art, err := s.service.RenderMap(r.Context(), geomap.Options{
		Style:  req.Style,
		Zoom:   req.Zoom,
		Sample: req.Sample,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("map rendered",
		"artifact_id", art.ID,
		"style", art.Style,
		"markers", art.Markers,
		"sampled", art.Sampled,
		"skipped", art.Skipped,
	)
	writeJSON(w, mapResponse{Artifact: art, URL: "/maps/" + art.ID})
}

// handleMapArtifact serves a rendered map document by artifact ID.
func (s *Server) handleMapArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "artifactID")
	path, err := s.store.Path(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "no such map artifact")
		return
	}
	http.ServeFile(w, r, path)
}

// handleLiveMap regenerates the live map slot from the current visible rows
// and serves it.
func (s *Server) handleLiveMap(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.RenderLive(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.ServeFile(w, r, art.Path)
}

type healthResponse struct {
	Status  string                   `json:"status"`
	Rows    int                      `json:"rows"`
	Visible int                      `json:"visible"`
	Renders core.RenderLimiterStatus `json:"renders"`
}

// handleHealth reports liveness plus dataset and render-limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:  "ok",
		Rows:    s.service.RowCount(),
		Visible: s.service.VisibleCount(),
		Renders: s.service.RenderStatus(),
	})
}

// handleIndex renders the server-side index page: filter form, listings
// table, and map links. The form submits back here with apply=1; plain
// pagination and sort links leave the filter state alone.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("reset") == "1" {
		s.service.ResetFilters()
	} else if q.Get("apply") == "1" {
		filterParamsFromQuery(q).apply(s.service)
	}
	s.applySort(q)

	data := indexData{
		Page:    s.service.Listings(intParam(q, "page", 1), intParam(q, "per_page", 0)),
		Filters: s.service.Filters(),
		States:  s.service.States(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("index render failed", "error", err)
	}
}
