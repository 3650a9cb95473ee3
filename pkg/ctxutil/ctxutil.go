package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	identityKey  ctxKey = "identity"
	requestIDKey ctxKey = "request_id"
)

// Identity is the authenticated caller placed in the context by the auth
// middleware.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx extracts the identity from the context.
// Returns false if the request is anonymous.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
