package services

import (
	"context"

	"github.com/google/uuid"

	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/persistence/local"
)

// LocalBackend serves anonymous callers from the device-wide blob.
type LocalBackend struct {
	store *local.Store
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend wraps store.
func NewLocalBackend(store *local.Store) *LocalBackend {
	return &LocalBackend{store: store}
}

func (b *LocalBackend) Name() string { return "local" }

// Save appends rec to the device collection.
func (b *LocalBackend) Save(ctx context.Context, _ Session, rec models.TastingRecord) error {
	rec.OwnerID = uuid.Nil
	return b.store.Append(ctx, rec)
}

// Update raises the stored record's reveal flag if rec's is set.
func (b *LocalBackend) Update(ctx context.Context, _ Session, rec models.TastingRecord) error {
	found, err := b.store.Patch(ctx, rec.ID, func(stored *models.TastingRecord) {
		stored.Wine.Revealed = models.MergeReveal(stored.Wine.Revealed, rec.Wine.Revealed)
	})
	if err != nil {
		return err
	}
	if !found {
		return tastingdomain.ErrNotFound
	}
	return nil
}

// List returns the device collection in insertion order.
func (b *LocalBackend) List(ctx context.Context, _ Session, _ ListOptions) ([]models.TastingRecord, error) {
	return b.store.Load(ctx)
}

// Clear removes the device collection.
func (b *LocalBackend) Clear(ctx context.Context, _ Session) error {
	return b.store.Remove(ctx)
}

// Subscribe observes the device collection, including writes by other processes
// when the store is being watched.
func (b *LocalBackend) Subscribe(ctx context.Context, _ Session, fn Listener) (*notify.Subscription, error) {
	return b.store.Observe(ctx, fn)
}
