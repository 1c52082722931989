package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/blindtasting/pkg/cache"
	"github.com/ghuser/blindtasting/pkg/database"
	"github.com/ghuser/blindtasting/pkg/logger"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/persistence/local"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/persistence/postgres"
)

const sqliteSchema = `
CREATE TABLE tasting_notes (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	rating INTEGER NOT NULL,
	perceived_price REAL NOT NULL,
	flavors TEXT NOT NULL DEFAULT '[]',
	comments TEXT NOT NULL DEFAULT '',
	wine_id TEXT NOT NULL,
	is_revealed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL
)`

// channelBus adapts a gochannel pubsub to both the transactional publisher
// and the broadcast feed the remote backend expects.
type channelBus struct {
	ps *gochannel.GoChannel
}

func (b channelBus) NewTxPublisher(*sql.Tx) (message.Publisher, error) {
	return b.ps, nil
}

func (b channelBus) SubscribeFeed(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	msgs, err := b.ps.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}
	errs := make(chan error, 10)
	go func() {
		defer close(errs)
		for m := range msgs {
			if err := handler(ctx, m); err != nil {
				m.Nack()
				errs <- err
				continue
			}
			m.Ack()
		}
	}()
	return errs, nil
}

// memoryCache is an in-process SnapshotCache.
type memoryCache struct {
	mu          sync.Mutex
	rows        []repositories.TastingRow
	present     bool
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]repositories.TastingRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.present {
		return nil, cache.ErrMiss
	}
	return append([]repositories.TastingRow(nil), c.rows...), nil
}

func (c *memoryCache) Set(_ context.Context, rows []repositories.TastingRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append([]repositories.TastingRow(nil), rows...)
	c.present = true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.present = nil, false
	c.invalidated++
	return nil
}

func (c *memoryCache) cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.present
}

type remoteFixture struct {
	backend *RemoteBackend
	repo    *postgres.TastingRepository
	cache   *memoryCache
}

func newRemoteFixture(t *testing.T) remoteFixture {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	bus := channelBus{ps: ps}

	repo := postgres.NewTastingRepository(database.New(db), bus)
	mc := &memoryCache{}
	backend := NewRemoteBackend(repo, catalog.Default(), mc, bus, logger.Nop())
	return remoteFixture{backend: backend, repo: repo, cache: mc}
}

func newLocalBackend(t *testing.T) (*LocalBackend, *local.Store) {
	t.Helper()
	store, err := local.Open(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewLocalBackend(store), store
}

func newService(t *testing.T) (*SyncService, remoteFixture) {
	t.Helper()
	lb, _ := newLocalBackend(t)
	rf := newRemoteFixture(t)
	return NewSyncService(lb, rf.backend, catalog.Default(), logger.Nop(), nil), rf
}

func signedIn(admin bool) Session {
	return Session{UserID: uuid.New(), Email: "taster@example.com", CanListAll: admin}
}

func mustRecord(t *testing.T, svc *SyncService, wineID string, rating int) *models.TastingRecord {
	t.Helper()
	rec, err := svc.Record(wineID, rating, 11.5, []string{"red fruit", "spice"}, "tasted blind")
	require.NoError(t, err)
	return rec
}

// snapshots collects every snapshot delivered to a listener.
type snapshots struct {
	mu   sync.Mutex
	seen [][]models.TastingRecord
}

func (s *snapshots) listen(recs []models.TastingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, recs)
}

func (s *snapshots) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *snapshots) latest() []models.TastingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.seen) == 0 {
		return nil
	}
	return s.seen[len(s.seen)-1]
}
