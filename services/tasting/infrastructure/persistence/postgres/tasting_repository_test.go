package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/blindtasting/pkg/database"
	domainevents "github.com/ghuser/blindtasting/services/tasting/domain/events"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
)

// sqliteSchema mirrors migrations/tasting with types sqlite understands.
const sqliteSchema = `
CREATE TABLE tasting_notes (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
	perceived_price REAL NOT NULL CHECK (perceived_price >= 0),
	flavors TEXT NOT NULL DEFAULT '[]',
	comments TEXT NOT NULL DEFAULT '',
	wine_id TEXT NOT NULL,
	is_revealed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL
)`

type channelPublisherFactory struct {
	pub message.Publisher
}

func (f channelPublisherFactory) NewTxPublisher(*sql.Tx) (message.Publisher, error) {
	return f.pub, nil
}

func newTestRepo(t *testing.T) (*TastingRepository, <-chan *message.Message) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })
	msgs, err := pubsub.Subscribe(context.Background(), domainevents.TopicTastingChanged)
	require.NoError(t, err)

	return NewTastingRepository(database.New(db), channelPublisherFactory{pub: pubsub}), msgs
}

func newRow(owner uuid.UUID, wineID string, rating int, at time.Time) repositories.TastingRow {
	return repositories.TastingRow{
		ID:             uuid.New(),
		UserID:         owner,
		Rating:         rating,
		PerceivedPrice: 9.5,
		Flavors:        `["cherry","oak"]`,
		Comments:       "firm tannins",
		WineID:         wineID,
		IsRevealed:     true, // must be ignored on insert
		CreatedAt:      at,
	}
}

func receiveEvent(t *testing.T, msgs <-chan *message.Message) domainevents.TastingChangedEvent {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		var evt domainevents.TastingChangedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tasting changed event")
	}
	return domainevents.TastingChangedEvent{}
}

func assertNoEvent(t *testing.T, msgs <-chan *message.Message) {
	t.Helper()
	select {
	case msg := <-msgs:
		t.Fatalf("unexpected event: %s", msg.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInsert_ForcesHiddenAndPublishes(t *testing.T) {
	ctx := context.Background()
	repo, msgs := newTestRepo(t)
	owner := uuid.New()
	row := newRow(owner, "1", 7, time.Now())

	require.NoError(t, repo.Insert(ctx, row))

	evt := receiveEvent(t, msgs)
	assert.Equal(t, domainevents.OpInserted, evt.Op)
	assert.Equal(t, row.ID, evt.NoteID)
	assert.Equal(t, owner, evt.OwnerID)

	rows, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0]
	assert.False(t, got.IsRevealed)
	assert.Equal(t, 7, got.Rating)
	assert.Equal(t, 9.5, got.PerceivedPrice)
	assert.Equal(t, `["cherry","oak"]`, got.Flavors)
	assert.Equal(t, "firm tannins", got.Comments)
	assert.Equal(t, "1", got.WineID)
}

func TestInsert_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	row := newRow(uuid.New(), "1", 7, time.Now())

	require.NoError(t, repo.Insert(ctx, row))
	assert.Error(t, repo.Insert(ctx, row))
}

func TestUpdateReveal_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo, msgs := newTestRepo(t)
	alice, bob := uuid.New(), uuid.New()
	row := newRow(alice, "2", 8, time.Now())
	require.NoError(t, repo.Insert(ctx, row))
	receiveEvent(t, msgs)

	n, err := repo.UpdateReveal(ctx, row.ID, bob, true)
	require.NoError(t, err)
	assert.Zero(t, n, "another owner must not match")
	assertNoEvent(t, msgs)

	rows, err := repo.FindByOwner(ctx, alice)
	require.NoError(t, err)
	assert.False(t, rows[0].IsRevealed)

	n, err = repo.UpdateReveal(ctx, row.ID, alice, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	evt := receiveEvent(t, msgs)
	assert.Equal(t, domainevents.OpUpdated, evt.Op)

	rows, err = repo.FindByOwner(ctx, alice)
	require.NoError(t, err)
	assert.True(t, rows[0].IsRevealed)
}

func TestUpdateReveal_NeverRegresses(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	owner := uuid.New()
	row := newRow(owner, "3", 5, time.Now())
	require.NoError(t, repo.Insert(ctx, row))

	_, err := repo.UpdateReveal(ctx, row.ID, owner, true)
	require.NoError(t, err)
	_, err = repo.UpdateReveal(ctx, row.ID, owner, false)
	require.NoError(t, err)

	rows, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.True(t, rows[0].IsRevealed)
}

func TestFind_OrderAndScope(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	alice, bob := uuid.New(), uuid.New()
	base := time.Date(2024, 11, 2, 19, 0, 0, 0, time.UTC)

	older := newRow(alice, "1", 6, base)
	newer := newRow(alice, "2", 8, base.Add(time.Minute))
	other := newRow(bob, "3", 4, base.Add(2*time.Minute))
	for _, r := range []repositories.TastingRow{older, newer, other} {
		require.NoError(t, repo.Insert(ctx, r))
	}

	mine, err := repo.FindByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
	assert.True(t, mine[1].CreatedAt.Equal(base))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestDeleteByOwner(t *testing.T) {
	ctx := context.Background()
	repo, msgs := newTestRepo(t)
	alice, bob := uuid.New(), uuid.New()
	require.NoError(t, repo.Insert(ctx, newRow(alice, "1", 6, time.Now())))
	require.NoError(t, repo.Insert(ctx, newRow(alice, "2", 6, time.Now())))
	require.NoError(t, repo.Insert(ctx, newRow(bob, "3", 6, time.Now())))
	for i := 0; i < 3; i++ {
		receiveEvent(t, msgs)
	}

	n, err := repo.DeleteByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	evt := receiveEvent(t, msgs)
	assert.Equal(t, domainevents.OpCleared, evt.Op)
	assert.Equal(t, alice, evt.OwnerID)

	n, err = repo.DeleteByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
	assertNoEvent(t, msgs)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, bob, all[0].UserID)
}

func TestFindAll_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	rows, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
