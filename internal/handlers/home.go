package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// Version is reported by GET /.
const Version = "1.0"

// HomeHandler serves the unauthenticated informational routes.
type HomeHandler struct {
	DB *sql.DB
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Todo API",
		"version": Version,
		"endpoints": map[string]string{
			"GET /":              "API information",
			"POST /register":     "Register a user",
			"POST /login":        "Log in and receive an access token",
			"GET /me":            "Current user",
			"POST /todos":        "Create a todo",
			"GET /todos":         "List your todos",
			"GET /todos/{id}":    "Get a todo",
			"PUT /todos/{id}":    "Update a todo",
			"DELETE /todos/{id}": "Delete a todo",
		},
	})
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// Ready reports 200 only when the database answers a ping.
func (h *HomeHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		JSONError(w, http.StatusServiceUnavailable, "Not ready", "Database is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// NotFound answers unmatched routes with the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, http.StatusNotFound, "Not Found", "The requested resource does not exist.")
}

// MethodNotAllowed answers known paths hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "This method is not supported for the requested resource.")
}
