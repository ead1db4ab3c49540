package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code. The status is
// already sent when encoding fails, so the error is only good for logging.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// respond writes data as JSON and logs a failed write
func (s *Server) respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	if err := WriteJSON(w, statusCode, data); err != nil {
		s.logger.Warn().Err(err).
			Str("path", r.URL.Path).
			Str("correlation_id", w.Header().Get("X-Correlation-ID")).
			Msg("Failed to write response")
	}
}

// requireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	s.respond(w, r, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	return false
}
