package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/blindtasting/pkg/database"
	"github.com/ghuser/blindtasting/pkg/events"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	domainevents "github.com/ghuser/blindtasting/services/tasting/domain/events"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
)

// TxPublisherFactory creates a publisher bound to an open transaction so events
// are stored atomically with the row change. *events.EventBus satisfies it.
type TxPublisherFactory interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

const selectColumns = `id, user_id, rating, perceived_price, flavors, comments, wine_id, is_revealed, created_at`

// TastingRepository implements repositories.TastingRepository against PostgreSQL.
type TastingRepository struct {
	db  *database.Database
	bus TxPublisherFactory
}

var _ repositories.TastingRepository = (*TastingRepository)(nil)

// NewTastingRepository returns a TastingRepository backed by the given pool. When
// bus is non-nil every committed mutation also publishes a TastingChangedEvent.
func NewTastingRepository(database *database.Database, bus TxPublisherFactory) *TastingRepository {
	return &TastingRepository{db: database, bus: bus}
}

// Insert persists a new row with the reveal flag forced to false.
// Returns ErrTastingAlreadyExists on unique constraint violations.
func (r *TastingRepository) Insert(ctx context.Context, row repositories.TastingRow) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasting_notes (id, user_id, rating, perceived_price, flavors, comments, wine_id, is_revealed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`,
			row.ID, row.UserID, row.Rating, row.PerceivedPrice, row.Flavors, row.Comments, row.WineID, row.CreatedAt.UTC(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return tastingdomain.ErrTastingAlreadyExists
			}
			return fmt.Errorf("insert tasting note: %w", err)
		}
		return r.publish(ctx, tx, domainevents.OpInserted, row.ID, row.UserID)
	})
}

// UpdateReveal raises the reveal flag of one row owned by ownerID. The stored
// flag is OR-ed with revealed so it never goes back to false.
func (r *TastingRepository) UpdateReveal(ctx context.Context, id, ownerID uuid.UUID, revealed bool) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasting_notes
			SET is_revealed = is_revealed OR $1
			WHERE id = $2 AND user_id = $3`,
			revealed, id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("update tasting note: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		return r.publish(ctx, tx, domainevents.OpUpdated, id, ownerID)
	})
	return n, err
}

// FindByOwner lists ownerID's rows, newest first.
func (r *TastingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]repositories.TastingRow, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+selectColumns+` FROM tasting_notes WHERE user_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasting notes: %w", err)
	}
	return scanRows(rows)
}

// FindAll lists every row, newest first.
func (r *TastingRepository) FindAll(ctx context.Context) ([]repositories.TastingRow, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+selectColumns+` FROM tasting_notes ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasting notes: %w", err)
	}
	return scanRows(rows)
}

// DeleteByOwner removes every row owned by ownerID.
func (r *TastingRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasting_notes WHERE user_id = $1`, ownerID)
		if err != nil {
			return fmt.Errorf("delete tasting notes: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		return r.publish(ctx, tx, domainevents.OpCleared, uuid.Nil, ownerID)
	})
	return n, err
}

func (r *TastingRepository) publish(ctx context.Context, tx *sql.Tx, op domainevents.Op, noteID, ownerID uuid.UUID) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.NewTastingChangedEvent(op, noteID, ownerID)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	events.InjectTrace(ctx, msg)
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if err := p.Publish(domainevents.TopicTastingChanged, msg); err != nil {
		return fmt.Errorf("publish tasting changed: %w", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]repositories.TastingRow, error) {
	defer rows.Close()

	out := []repositories.TastingRow{}
	for rows.Next() {
		var row repositories.TastingRow
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.Rating, &row.PerceivedPrice, &row.Flavors,
			&row.Comments, &row.WineID, &row.IsRevealed, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tasting note: %w", err)
		}
		row.CreatedAt = row.CreatedAt.UTC()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasting notes: %w", err)
	}
	return out, nil
}
