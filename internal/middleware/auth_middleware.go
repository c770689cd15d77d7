package middleware

import (
	"context"
	"net/http"
	"strings"

	"nightout/internal/auth"
)

// contextKey is a private type for context values, avoiding key collisions.
type contextKey string

// UserIDKey is the context key for the authenticated local user ID.
const UserIDKey contextKey = "userID"

// EmailKey is the context key for the authenticated email.
const EmailKey contextKey = "email"

// ClaimsKey is the context key for the full token claims (logout needs the JTI).
const ClaimsKey contextKey = "claims"

// AuthMiddleware validates the session JWT and stores the caller's identity
// in the request context. Identity travels only through this context; no
// handler or service reads ambient session state.
//
// A token with UserID 0 (degraded identity: the store was down at sync time)
// passes through — endpoints that need the local id fail individually.
func AuthMiddleware(jwtSecretKey string, blacklist auth.TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization token", http.StatusUnauthorized)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				http.Error(w, "invalid authorization header, expected Bearer {token}", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(r.Context(), headerParts[1], jwtSecretKey, blacklist)
			if err != nil {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext returns the authenticated local user ID. ok is false
// when the request is unauthenticated or the identity is degraded (no local
// id was available at sync time).
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

// GetEmailFromContext returns the authenticated email.
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetClaimsFromContext returns the full session token claims.
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}
