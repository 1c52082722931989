package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/blindtasting/pkg/logger"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
	"github.com/ghuser/blindtasting/services/tasting/infrastructure/notify"
)

func remoteService(t *testing.T) (*SyncService, remoteFixture) {
	t.Helper()
	rf := newRemoteFixture(t)
	return NewSyncService(nil, rf.backend, catalog.Default(), logger.Nop(), nil), rf
}

func TestRemote_RequiresIdentity(t *testing.T) {
	ctx := context.Background()
	rf := newRemoteFixture(t)
	b := rf.backend

	assert.ErrorIs(t, b.Save(ctx, Session{}, models.TastingRecord{}), tastingdomain.ErrUnauthenticated)
	assert.ErrorIs(t, b.Update(ctx, Session{}, models.TastingRecord{}), tastingdomain.ErrUnauthenticated)
	assert.ErrorIs(t, b.Clear(ctx, Session{}), tastingdomain.ErrUnauthenticated)
	_, err := b.List(ctx, Session{}, ListOptions{})
	assert.ErrorIs(t, err, tastingdomain.ErrUnauthenticated)
	_, err = b.Subscribe(ctx, Session{}, func([]models.TastingRecord) {})
	assert.ErrorIs(t, err, tastingdomain.ErrUnauthenticated)
}

func TestRemote_SaveStoresHiddenAndOwned(t *testing.T) {
	ctx := context.Background()
	svc, rf := remoteService(t)
	alice := signedIn(false)

	rec := mustRecord(t, svc, "2", 8)
	rec.Wine.Revealed = true
	require.NoError(t, rf.backend.Save(ctx, alice, *rec))

	recs, err := svc.List(ctx, alice, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	got := recs[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, alice.UserID, got.OwnerID)
	assert.False(t, got.Wine.Revealed)
	assert.Equal(t, "Blanc Inicial", got.Wine.Label)
	assert.Equal(t, models.Flavors{"red fruit", "spice"}, got.Flavors)
	assert.Equal(t, "tasted blind", got.Comments)
}

func TestRemote_CrossOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	svc, _ := remoteService(t)
	alice, bob := signedIn(false), signedIn(false)

	rec := mustRecord(t, svc, "1", 6)
	require.NoError(t, svc.Save(ctx, alice, rec))

	_, err := svc.Reveal(ctx, bob, rec.ID)
	assert.ErrorIs(t, err, tastingdomain.ErrNotFound)

	revealed := rec.Clone()
	revealed.Wine.Revealed = true
	assert.ErrorIs(t, svc.Update(ctx, bob, revealed), tastingdomain.ErrNotFound)

	mine, err := svc.List(ctx, bob, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, mine)

	require.NoError(t, svc.Clear(ctx, bob))

	recs, err := svc.List(ctx, alice, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Wine.Revealed)
}

func TestRemote_ClearOnlyCallerRows(t *testing.T) {
	ctx := context.Background()
	svc, _ := remoteService(t)
	alice, bob := signedIn(false), signedIn(false)

	require.NoError(t, svc.Save(ctx, alice, mustRecord(t, svc, "1", 6)))
	require.NoError(t, svc.Save(ctx, alice, mustRecord(t, svc, "2", 7)))
	require.NoError(t, svc.Save(ctx, bob, mustRecord(t, svc, "3", 8)))

	require.NoError(t, svc.Clear(ctx, alice))

	recs, err := svc.List(ctx, alice, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	recs, err = svc.List(ctx, bob, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	require.NoError(t, svc.Clear(ctx, alice), "clearing nothing succeeds")
}

func TestRemote_ListAll(t *testing.T) {
	ctx := context.Background()
	svc, rf := remoteService(t)
	alice, bob := signedIn(false), signedIn(true)

	require.NoError(t, svc.Save(ctx, alice, mustRecord(t, svc, "1", 6)))
	require.NoError(t, svc.Save(ctx, bob, mustRecord(t, svc, "2", 7)))

	narrowed, err := svc.List(ctx, alice, ListOptions{All: true})
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, alice.UserID, narrowed[0].OwnerID)
	assert.False(t, rf.cache.cached())

	all, err := svc.List(ctx, bob, ListOptions{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, rf.cache.cached())

	require.NoError(t, svc.Save(ctx, alice, mustRecord(t, svc, "3", 8)))
	assert.False(t, rf.cache.cached(), "a write drops the cached snapshot")

	all, err = svc.List(ctx, bob, ListOptions{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRemote_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := remoteService(t)
	alice := signedIn(false)

	older := mustRecord(t, svc, "1", 6)
	older.Date = time.Date(2024, 11, 2, 19, 0, 0, 0, time.UTC)
	newer := mustRecord(t, svc, "2", 7)
	newer.Date = older.Date.Add(time.Hour)
	require.NoError(t, svc.Save(ctx, alice, older))
	require.NoError(t, svc.Save(ctx, alice, newer))

	recs, err := svc.List(ctx, alice, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.True(t, recs[1].Date.Equal(older.Date))
}

func TestRemote_SkipsRowsForUnknownWines(t *testing.T) {
	ctx := context.Background()
	svc, rf := remoteService(t)
	alice := signedIn(false)

	require.NoError(t, rf.repo.Insert(ctx, repositories.TastingRow{
		ID:             uuid.New(),
		UserID:         alice.UserID,
		Rating:         5,
		PerceivedPrice: 4,
		Flavors:        `[]`,
		WineID:         "retired",
		CreatedAt:      time.Now(),
	}))
	require.NoError(t, svc.Save(ctx, alice, mustRecord(t, svc, "4", 9)))

	recs, err := svc.List(ctx, alice, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "4", recs[0].Wine.ID)
}

func TestRemote_Warm(t *testing.T) {
	ctx := context.Background()
	svc, rf := remoteService(t)
	require.NoError(t, svc.Save(ctx, signedIn(false), mustRecord(t, svc, "1", 6)))
	require.False(t, rf.cache.cached())

	require.NoError(t, rf.backend.Warm(ctx))
	rows, err := rf.cache.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRemoteFeed_DeliversSnapshotPerChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, rf := remoteService(t)
	alice, bob := signedIn(false), signedIn(false)

	require.NoError(t, rf.backend.Feed().Start(ctx))
	require.NoError(t, rf.backend.Feed().Start(ctx), "second start is a no-op")

	var got snapshots
	sub, err := svc.Subscribe(ctx, alice, got.listen)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.Equal(t, 1, got.count())
	assert.Empty(t, got.latest())
	assert.Equal(t, 1, rf.backend.Feed().Listeners())

	rec := mustRecord(t, svc, "3", 7)
	require.NoError(t, svc.Save(ctx, bob, rec))

	require.Eventually(t, func() bool {
		latest := got.latest()
		return len(latest) == 1 && latest[0].ID == rec.ID
	}, 2*time.Second, 10*time.Millisecond, "snapshots are unscoped")

	_, err = svc.Reveal(ctx, bob, rec.ID)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		latest := got.latest()
		return len(latest) == 1 && latest[0].Wine.Revealed
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Clear(ctx, bob))
	require.Eventually(t, func() bool {
		return len(got.latest()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	sub.Unsubscribe()
	assert.Equal(t, 0, rf.backend.Feed().Listeners())
}

func TestRemoteFeed_WithoutBusDeliversInitialOnly(t *testing.T) {
	ctx := context.Background()
	rf := newRemoteFixture(t)
	b := NewRemoteBackend(rf.repo, catalog.Default(), nil, nil, logger.Nop())
	require.NoError(t, b.Feed().Start(ctx))

	var got snapshots
	sub, err := b.Subscribe(ctx, signedIn(false), got.listen)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	assert.Equal(t, 1, got.count())
}

func TestRemoteFeed_EmptyClearIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, rf := remoteService(t)
	alice := signedIn(false)
	require.NoError(t, rf.backend.Feed().Start(ctx))

	var got snapshots
	sub, err := svc.Subscribe(ctx, alice, got.listen)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.Equal(t, 1, got.count())

	require.NoError(t, svc.Clear(ctx, alice))
	assert.Never(t, func() bool { return got.count() > 1 }, 200*time.Millisecond, 10*time.Millisecond,
		"clearing an empty scope changes nothing and announces nothing")
}

func TestRemoteFeed_AcceptsHubListeners(t *testing.T) {
	ctx := context.Background()
	rf := newRemoteFixture(t)

	var got snapshots
	var fn notify.Listener[[]models.TastingRecord] = got.listen
	sub, err := rf.backend.Feed().Subscribe(ctx, fn)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	assert.Equal(t, 1, got.count())
	assert.Equal(t, 1, rf.backend.Feed().Listeners())
}
