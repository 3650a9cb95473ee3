package middleware

import (
	"context"
	"net/http"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
	"github.com/heartmarshall/bookshelf-backend/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrUnauthorized for anonymous callers and
// domain.ErrForbidden for authenticated callers without the admin role.
// Use in resolvers; REST routes use AdminOnly.
func RequireAdmin(ctx context.Context) error {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !id.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// AdminOnly guards a route: 401 for anonymous callers, 403 for
// non-admin callers.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ctxutil.IdentityFromCtx(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !id.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticated guards a route: 401 for anonymous callers.
func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.IdentityFromCtx(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
