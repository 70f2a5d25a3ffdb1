package auth

import (
	"context"
	"net/http"
	"strings"
)

// authClaimsKey is a context key for the validated token claims.
type authClaimsKey struct{}

// ClaimsFromContext returns the validated claims from the request context.
// Returns nil if the request is not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(authClaimsKey{}).(*Claims); ok {
		return c
	}
	return nil
}

// Public paths that don't require authentication.
var publicPaths = map[string]bool{
	"/api/v1/auth/login": true,
}

// Middleware validates JWT access tokens on API routes. Public paths,
// non-API paths (healthz, readyz, metrics) and the WebSocket endpoint are
// skipped; the WS handler validates its token from the query string. When
// the service has no password configured the middleware is a no-op.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !service.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			if r.URL.Path == "/api/v1/ws" {
				next.ServeHTTP(w, r)
				return
			}

			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := service.Tokens().ValidateAccessToken(tokenString)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}

			ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WSTokenValidator adapts the service for the WebSocket upgrade handler,
// which receives its token as a query parameter. Returns nil when auth is
// disabled.
func WSTokenValidator(service *Service) func(token string) error {
	if !service.Enabled() {
		return nil
	}
	return func(token string) error {
		_, err := service.Tokens().ValidateAccessToken(token)
		return err
	}
}
