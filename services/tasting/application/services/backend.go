package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

// Session is the caller's identity signal, derived once per request.
// The zero Session is an anonymous, device-local caller.
type Session struct {
	UserID     uuid.UUID
	Email      string
	CanListAll bool // granted by the authorization layer, honored as given
}

// Authenticated reports whether the session carries an identity. It is the
// only input to backend selection.
func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

// ListOptions narrows a listing.
type ListOptions struct {
	// All lists every owner's notes. It takes effect only for sessions with
	// CanListAll; the local store is device-wide regardless.
	All bool
}

// Listener receives a full collection snapshot. Snapshots are shared between
// listeners and must be treated as read-only.
type Listener = notify.Listener[[]models.TastingRecord]

// Backend is one of the two mutually exclusive tasting stores.
type Backend interface {
	Name() string
	Save(ctx context.Context, sess Session, rec models.TastingRecord) error
	// Update applies only the reveal flag of rec to the stored record with the same id.
	Update(ctx context.Context, sess Session, rec models.TastingRecord) error
	List(ctx context.Context, sess Session, opts ListOptions) ([]models.TastingRecord, error)
	Clear(ctx context.Context, sess Session) error
	// Subscribe delivers the current snapshot, then one snapshot per change.
	Subscribe(ctx context.Context, sess Session, fn Listener) (*notify.Subscription, error)
}
