package web

// errors.go centralizes error responses for the web layer. Clients get a
// stable machine code plus a user-safe message; the technical detail stays
// in the server log, keyed by request ID.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"housemap/internal/core"
	"housemap/internal/geomap"
	"housemap/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error with request context and writes the
// sanitized JSON form of it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classifyError(err)

	logging.FromContext(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"code", code,
		"error", err,
	)

	writeError(w, status, code, msg)
}

// classifyError maps internal errors to a status, machine code, and
// user-safe message.
func classifyError(err error) (status int, code, msg string) {
	var ioErr *geomap.RenderIOError
	switch {
	case errors.Is(err, core.ErrTooManyRenders):
		return http.StatusTooManyRequests, "render_busy",
			"too many concurrent map renders, retry shortly"
	case errors.As(err, &ioErr):
		return http.StatusInternalServerError, "artifact_write_failed",
			"could not write the map document"
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound, "not_found", "no such map artifact"
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: code})
}

// writeJSON encodes v as JSON. Encoding errors are logged; headers are
// already sent by then.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
