// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
	"bookstack/internal/httpx"
)

// ErrForbidden is returned when the principal lacks the required role.
var ErrForbidden = apperr.New(apperr.Forbidden, "Forbidden")

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

type contextKey struct{}

// FromContext extracts the principal set by Authenticate.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// Verifier validates a bearer token and returns its claims.
type Verifier interface {
	VerifyAccess(token string) (*Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// resulting principal in the request context.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || bearer != "Bearer" {
				httpx.Error(w, ErrInvalidToken)
				return
			}
			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				httpx.Error(w, err)
				return
			}
			principal := Principal{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, principal)))
		})
	}
}

// RequireAdmin guards admin-only routes. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := FromContext(r.Context())
		if !ok || principal.Role != "admin" {
			httpx.Error(w, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
