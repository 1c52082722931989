package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/pkg/logger"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
)

// recordToRow flattens rec into the shared-table shape owned by owner.
// Only the catalog id of the wine is kept.
func recordToRow(rec models.TastingRecord, owner uuid.UUID) (repositories.TastingRow, error) {
	flavors, err := json.Marshal(rec.Flavors)
	if err != nil {
		return repositories.TastingRow{}, fmt.Errorf("encode flavors: %w", err)
	}
	created := rec.Date
	if created.IsZero() {
		created = time.Now()
	}
	return repositories.TastingRow{
		ID:             rec.ID,
		UserID:         owner,
		Rating:         rec.Rating.Int(),
		PerceivedPrice: rec.PerceivedPrice.Float64(),
		Flavors:        string(flavors),
		Comments:       rec.Comments,
		WineID:         rec.Wine.ID,
		IsRevealed:     false,
		CreatedAt:      created.UTC(),
	}, nil
}

// rowToRecord re-attaches the catalog entry for row and overlays its reveal flag.
func rowToRecord(row repositories.TastingRow, cat *catalog.Catalog) (models.TastingRecord, error) {
	wine, ok := cat.Lookup(row.WineID)
	if !ok {
		return models.TastingRecord{}, fmt.Errorf("%w: unknown wine %q", tastingdomain.ErrMalformed, row.WineID)
	}
	var tags []string
	if row.Flavors != "" {
		if err := json.Unmarshal([]byte(row.Flavors), &tags); err != nil {
			return models.TastingRecord{}, fmt.Errorf("%w: flavors: %w", tastingdomain.ErrMalformed, err)
		}
	}
	rating := models.Rating(row.Rating)
	if !rating.Valid() {
		return models.TastingRecord{}, fmt.Errorf("%w: rating %d", tastingdomain.ErrMalformed, row.Rating)
	}
	price := models.Price(row.PerceivedPrice)
	if !price.Valid() {
		return models.TastingRecord{}, fmt.Errorf("%w: perceived price %v", tastingdomain.ErrMalformed, row.PerceivedPrice)
	}
	return models.TastingRecord{
		ID:             row.ID,
		OwnerID:        row.UserID,
		Rating:         rating,
		PerceivedPrice: price,
		Flavors:        models.DecodeFlavors(tags),
		Comments:       row.Comments,
		Wine:           models.TastedWine{Wine: wine, Revealed: row.IsRevealed},
		Date:           row.CreatedAt.UTC(),
	}, nil
}

// rowsToRecords translates rows, skipping and logging malformed ones.
func rowsToRecords(ctx context.Context, rows []repositories.TastingRow, cat *catalog.Catalog, log logger.Logger) []models.TastingRecord {
	out := make([]models.TastingRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row, cat)
		if err != nil {
			log.WarnContext(ctx, "skipping malformed tasting row", "note_id", row.ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}
