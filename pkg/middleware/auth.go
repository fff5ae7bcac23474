// Package middleware provides the HTTP middleware stack: auth, CORS,
// request logging, panic recovery, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/identity"
	"github.com/miraedance/atelier/pkg/auth"
	"github.com/miraedance/atelier/pkg/response"
)

type claimsKey struct{}

// ClaimsFromCtx returns the authenticated claims, or nil on public routes.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// Authenticate rejects requests without a valid, unrevoked session token and
// stores the claims in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil || identity.Revoked(token) {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only admin sessions through. Mount after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil {
			response.Unauthorized(w)
			return
		}
		if claims.Role != models.RoleAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
