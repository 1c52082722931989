package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const identityKey contextKey = "identity"

// ErrNoIdentity is returned when no signed-in identity exists in the request context.
var ErrNoIdentity = errors.New("identity not found in context")

// Identity is the signed-in taster behind a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Admin  bool // may list every taster's notes
}

// IdentityFromCtx extracts the signed-in identity from the request context.
// Returns ErrNoIdentity for anonymous requests.
func IdentityFromCtx(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// WithIdentity returns a new context with the given identity attached.
// Used by authentication middleware after validating the session.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
