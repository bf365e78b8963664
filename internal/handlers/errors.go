package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/todo-api/internal/service"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "An unexpected error occurred."

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// JSONError sends the {error, message} envelope.
func JSONError(w http.ResponseWriter, status int, tag, message string) {
	writeJSON(w, status, ErrorResponse{Error: tag, Message: message})
}

// statusFor maps a service error kind to its HTTP status. Conflicts are 400, not 409.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError answers err with its mapped status. Unclassified errors are
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large", "The request body exceeds the allowed size.")
		return
	}
	if e, ok := service.AsError(err); ok {
		JSONError(w, statusFor(e.Kind), e.Code, e.Message)
		return
	}
	slog.ErrorContext(r.Context(), "request failed",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err)
	JSONError(w, http.StatusInternalServerError, "Internal server error", ErrMessageInternal)
}
