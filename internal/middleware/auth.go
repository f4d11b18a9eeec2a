package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"traveltracker/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AccountIDKey is the context key for storing the authenticated account ID.
	AccountIDKey contextKey = "account_id"
	// EmailKey is the context key for storing the authenticated account's email.
	EmailKey contextKey = "email"
)

// GetAccountID extracts the account ID from the context.
// Returns empty string if not found.
func GetAccountID(ctx context.Context) string {
	accountID, _ := ctx.Value(AccountIDKey).(string)
	return accountID
}

// GetEmail extracts the account email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// RequireAuth wraps a handler so that it only runs for requests carrying a
// valid Bearer token. The account ID and email from the token land in the
// request context.
func RequireAuth(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, auth.ErrMissingToken.Error())
			return
		}

		// Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, auth.ErrInvalidToken.Error())
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), AccountIDKey, claims.AccountID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
