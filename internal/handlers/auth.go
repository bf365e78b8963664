package handlers

import (
	"net/http"

	"github.com/crucial707/todo-api/internal/auth"
	"github.com/crucial707/todo-api/internal/metrics"
	"github.com/crucial707/todo-api/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *service.UserDirectory
	Tokens *auth.TokenService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := decodeObject(r, &input); err != nil {
		metrics.IncAuthEvent("register", "rejected")
		writeError(w, r, err)
		return
	}

	user, err := h.Users.Register(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		metrics.IncAuthEvent("register", "rejected")
		writeError(w, r, err)
		return
	}

	metrics.IncAuthEvent("register", "success")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration complete",
		"data":    user,
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := decodeObject(r, &input); err != nil {
		metrics.IncAuthEvent("login", "rejected")
		writeError(w, r, err)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		metrics.IncAuthEvent("login", "failure")
		writeError(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.IncAuthEvent("login", "success")
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.Tokens.TTL().Seconds()),
		"user":         user,
	})
}

// ==========================
// Me
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User retrieved",
		"data":    user,
	})
}
