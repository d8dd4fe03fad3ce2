package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the generic error envelope for the JSON API.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes data as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error envelope
func writeError(w http.ResponseWriter, status int, errMsg string) {
	writeJSON(w, status, errorResponse{Error: errMsg})
}

// writeServerError writes a 500 with the underlying message passed through
// for diagnostics
func writeServerError(w http.ResponseWriter, errMsg string, err error) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   errMsg,
		Message: err.Error(),
	})
}

// MethodNotAllowed is the JSON 405 handler wired into the router
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound is the JSON 404 handler wired into the router
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}
