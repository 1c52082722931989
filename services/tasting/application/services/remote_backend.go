package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/blindtasting/pkg/cache"
	"github.com/ghuser/blindtasting/pkg/logger"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

// SnapshotCache holds the unscoped row listing between changes.
// *cache.SnapshotCache[repositories.TastingRow] satisfies it.
type SnapshotCache interface {
	Get(ctx context.Context) ([]repositories.TastingRow, error)
	Set(ctx context.Context, rows []repositories.TastingRow) error
	Invalidate(ctx context.Context) error
}

// RemoteBackend serves signed-in callers from the shared table. Every read
// joins rows with the catalog.
type RemoteBackend struct {
	repo    repositories.TastingRepository
	catalog *catalog.Catalog
	cache   SnapshotCache
	feed    *RemoteFeed
	log     logger.Logger
}

var _ Backend = (*RemoteBackend)(nil)

// NewRemoteBackend wires the shared-table backend. snapshots may be nil to
// disable caching; bus may be nil, in which case Subscribe only ever delivers
// the initial snapshot.
func NewRemoteBackend(repo repositories.TastingRepository, cat *catalog.Catalog, snapshots SnapshotCache, bus FeedSubscriber, log logger.Logger) *RemoteBackend {
	b := &RemoteBackend{
		repo:    repo,
		catalog: cat,
		cache:   snapshots,
		log:     log.With("backend", "remote"),
	}
	b.feed = NewRemoteFeed(bus, b, b.log)
	return b
}

func (b *RemoteBackend) Name() string { return "remote" }

// Feed is the process-wide change feed for the shared table.
func (b *RemoteBackend) Feed() *RemoteFeed { return b.feed }

// Save inserts rec owned by the session identity, always hidden.
func (b *RemoteBackend) Save(ctx context.Context, sess Session, rec models.TastingRecord) error {
	if !sess.Authenticated() {
		return tastingdomain.ErrUnauthenticated
	}
	row, err := recordToRow(rec, sess.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", tastingdomain.ErrInvalidTasting, err)
	}
	if err := b.repo.Insert(ctx, row); err != nil {
		return fmt.Errorf("save tasting note: %w", err)
	}
	b.invalidate(ctx)
	return nil
}

// Update raises the reveal flag of the caller's row with rec's id. A row owned
// by someone else matches nothing and yields ErrNotFound.
func (b *RemoteBackend) Update(ctx context.Context, sess Session, rec models.TastingRecord) error {
	if !sess.Authenticated() {
		return tastingdomain.ErrUnauthenticated
	}
	n, err := b.repo.UpdateReveal(ctx, rec.ID, sess.UserID, rec.Wine.Revealed)
	if err != nil {
		return fmt.Errorf("update tasting note: %w", err)
	}
	if n == 0 {
		return tastingdomain.ErrNotFound
	}
	b.invalidate(ctx)
	return nil
}

// List returns the caller's notes, or every note when the session may list all.
// Newest first.
func (b *RemoteBackend) List(ctx context.Context, sess Session, opts ListOptions) ([]models.TastingRecord, error) {
	if !sess.Authenticated() {
		return nil, tastingdomain.ErrUnauthenticated
	}
	if opts.All && sess.CanListAll {
		return b.Snapshot(ctx)
	}
	rows, err := b.repo.FindByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list tasting notes: %w", err)
	}
	return rowsToRecords(ctx, rows, b.catalog, b.log), nil
}

// Clear deletes every note owned by the caller. Clearing nothing succeeds.
func (b *RemoteBackend) Clear(ctx context.Context, sess Session) error {
	if !sess.Authenticated() {
		return tastingdomain.ErrUnauthenticated
	}
	if _, err := b.repo.DeleteByOwner(ctx, sess.UserID); err != nil {
		return fmt.Errorf("clear tasting notes: %w", err)
	}
	b.invalidate(ctx)
	return nil
}

// Subscribe attaches fn to the shared change feed. Snapshots are unscoped.
func (b *RemoteBackend) Subscribe(ctx context.Context, sess Session, fn Listener) (*notify.Subscription, error) {
	if !sess.Authenticated() {
		return nil, tastingdomain.ErrUnauthenticated
	}
	return b.feed.Subscribe(ctx, fn)
}

// Snapshot returns every note, newest first, reading through the cache.
func (b *RemoteBackend) Snapshot(ctx context.Context) ([]models.TastingRecord, error) {
	rows, err := b.snapshotRows(ctx)
	if err != nil {
		return nil, err
	}
	return rowsToRecords(ctx, rows, b.catalog, b.log), nil
}

// Invalidate drops the cached snapshot.
func (b *RemoteBackend) Invalidate(ctx context.Context) {
	b.invalidate(ctx)
}

// Warm replaces the cached snapshot with a fresh read.
func (b *RemoteBackend) Warm(ctx context.Context) error {
	if b.cache == nil {
		return nil
	}
	rows, err := b.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list all tasting notes: %w", err)
	}
	if err := b.cache.Set(ctx, rows); err != nil {
		return fmt.Errorf("warm snapshot cache: %w", err)
	}
	return nil
}

func (b *RemoteBackend) snapshotRows(ctx context.Context) ([]repositories.TastingRow, error) {
	if b.cache != nil {
		rows, err := b.cache.Get(ctx)
		if err == nil {
			return rows, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			b.log.WarnContext(ctx, "snapshot cache read failed", "error", err)
		}
	}

	rows, err := b.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all tasting notes: %w", err)
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, rows); err != nil {
			b.log.WarnContext(ctx, "snapshot cache write failed", "error", err)
		}
	}
	return rows, nil
}

func (b *RemoteBackend) invalidate(ctx context.Context) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx); err != nil {
		b.log.WarnContext(ctx, "snapshot cache invalidation failed", "error", err)
	}
}
