package services

import (
	"context"
	"fmt"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/cache"
	"github.com/ghuser/blindtasting/pkg/telemetry"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/persistence/local"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Sync       *SyncService
	LocalStore *local.Store
	Remote     *RemoteBackend // nil when the Application has no database
}

// New wires the tasting services with infrastructure from the Application container.
func New(a *app.Application) (*Services, error) {
	cat, err := catalog.Load(a.Config.CatalogFile)
	if err != nil {
		return nil, err
	}

	store, err := local.Open(a.Config.LocalStoreDir, a.Logger)
	if err != nil {
		return nil, err
	}

	var remote *RemoteBackend
	if a.Db != nil {
		var snapshots SnapshotCache
		if a.Redis != nil {
			snapshots = cache.NewSnapshotCache[repositories.TastingRow](a.Redis, cache.TastingSnapshotKey, a.Config.SnapshotCacheTTL)
		}
		var bus FeedSubscriber
		var txBus postgres.TxPublisherFactory
		if a.EventBus != nil {
			bus, txBus = a.EventBus, a.EventBus
		}
		repo := postgres.NewTastingRepository(a.Db, txBus)
		remote = NewRemoteBackend(repo, cat, snapshots, bus, a.Logger)
	}

	ops, err := telemetry.NewOpRecorder("tasting", "tasting.sync.operations")
	if err != nil {
		return nil, err
	}

	svc := &Services{LocalStore: store, Remote: remote}
	var remoteBackend Backend
	if remote != nil {
		remoteBackend = remote
	}
	svc.Sync = NewSyncService(NewLocalBackend(store), remoteBackend, cat, a.Logger, ops)
	return svc, nil
}

// Start begins watching the local blob for writes by other processes and, when
// a shared store is configured, opens the remote change feed.
func (s *Services) Start(ctx context.Context) error {
	if err := s.LocalStore.Watch(ctx); err != nil {
		return fmt.Errorf("watch local store: %w", err)
	}
	if s.Remote != nil {
		if err := s.Remote.Feed().Start(ctx); err != nil {
			return fmt.Errorf("start remote feed: %w", err)
		}
	}
	return nil
}

// Close stops background watchers.
func (s *Services) Close() error {
	return s.LocalStore.Close()
}
