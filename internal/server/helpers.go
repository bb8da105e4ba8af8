package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// ErrorResponse is the error format for transport-level failures
// (wrong method, unknown route, panics).
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// FailureResponse carries the ordered errors of a failed operation.
type FailureResponse struct {
	Errors []models.Error `json:"errors"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteResult writes the value of a successful result with 200, or its
// errors with the status chosen by FailureStatus.
func WriteResult[T any](w http.ResponseWriter, r models.Result[T]) {
	if r.OK() {
		WriteJSON(w, http.StatusOK, r.Value)
		return
	}
	WriteJSON(w, FailureStatus(r.Errors), FailureResponse{Errors: r.Errors})
}

// FailureStatus maps an error list to an HTTP status: 400 when any error is a
// validation failure, 404 when every error is a not-found, 502 otherwise.
func FailureStatus(errs []models.Error) int {
	if len(errs) == 0 {
		return http.StatusBadGateway
	}
	allNotFound := true
	for _, e := range errs {
		if e.Kind == models.KindInvalid {
			return http.StatusBadRequest
		}
		if e.Kind != models.KindNotFound {
			allNotFound = false
		}
	}
	if allNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/history/{symbol}, PathParam(r, "/api/history/", "")
// returns {symbol}.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	// No suffix: return up to the next /
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// splitList splits a comma-separated query value, trimming each item.
// An empty value yields nil; empty items are kept so validation can report them.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
