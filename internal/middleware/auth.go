package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type key string

const UserIDKey key = "user_id"

// TokenResolver turns a bearer token into a user id.
type TokenResolver interface {
	Resolve(token string) (int, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 before
// the wrapped handler runs, and stores the caller's id in the context.
func RequireAuth(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				unauthorized(w, "Authorization required", "Missing Authorization header.")
				return
			}

			scheme, tokenStr, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				unauthorized(w, "Invalid token", "Authorization header must be in the format 'Bearer {token}'.")
				return
			}

			userID, err := tokens.Resolve(strings.TrimSpace(tokenStr))
			if err != nil {
				unauthorized(w, "Invalid token", "The token is invalid or has expired.")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id set by RequireAuth.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// WithUserID returns ctx carrying userID, as RequireAuth would.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func unauthorized(w http.ResponseWriter, tag, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="todo-api"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": tag, "message": message})
}
