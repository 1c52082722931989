package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TastingRow is the shared-table shape of a tasting note. It carries only the
// catalog reference; readers re-attach the catalog entry.
type TastingRow struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Rating         int       `json:"rating"`
	PerceivedPrice float64   `json:"perceived_price"`
	Flavors        string    `json:"flavors"` // JSON array text
	Comments       string    `json:"comments"`
	WineID         string    `json:"wine_id"`
	IsRevealed     bool      `json:"is_revealed"`
	CreatedAt      time.Time `json:"created_at"`
}

// TastingRepository is the persistence interface for the shared tasting table.
// The domain layer owns this interface; infrastructure implements it.
// Every mutation is scoped to the owning user.
type TastingRepository interface {
	// Insert stores a new row. The reveal flag is always stored as false.
	Insert(ctx context.Context, row TastingRow) error

	// UpdateReveal raises the reveal flag of one row owned by ownerID.
	// A stored true is never lowered. Returns the number of rows matched.
	UpdateReveal(ctx context.Context, id, ownerID uuid.UUID, revealed bool) (int64, error)

	// FindByOwner lists ownerID's rows, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]TastingRow, error)

	// FindAll lists every row regardless of owner, newest first.
	FindAll(ctx context.Context) ([]TastingRow, error)

	// DeleteByOwner removes all of ownerID's rows and returns how many were removed.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
