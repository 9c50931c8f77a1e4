// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/lastbite/pkg/auth"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type claimsKey struct{}

// Auth validates the Bearer token and stores the claims in the request
// context for handlers to read via ClaimsFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireVendor rejects requests whose token does not carry the vendor role.
// Always chain after Auth.
func RequireVendor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || claims.Role != "vendor" {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromCtx returns the authenticated claims, or nil outside Auth.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}
