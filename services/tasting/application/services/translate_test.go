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
	"github.com/ghuser/blindtasting/services/tasting/domain/repositories"
)

func validRow() repositories.TastingRow {
	return repositories.TastingRow{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Rating:         8,
		PerceivedPrice: 14,
		Flavors:        `["pear","pear","brioche"]`,
		Comments:       "fine bubbles",
		WineID:         "1",
		IsRevealed:     true,
		CreatedAt:      time.Date(2024, 11, 2, 20, 0, 0, 0, time.FixedZone("CET", 3600)),
	}
}

func TestRecordToRow(t *testing.T) {
	svc, _, _ := stubService()
	rec := mustRecord(t, svc, "2", 6)
	rec.Wine.Revealed = true
	owner := uuid.New()

	row, err := recordToRow(*rec, owner)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, row.ID)
	assert.Equal(t, owner, row.UserID)
	assert.Equal(t, 6, row.Rating)
	assert.Equal(t, `["red fruit","spice"]`, row.Flavors)
	assert.Equal(t, "2", row.WineID)
	assert.False(t, row.IsRevealed)
	assert.Equal(t, time.UTC, row.CreatedAt.Location())
}

func TestRecordToRow_NoFlavors(t *testing.T) {
	svc, _, _ := stubService()
	rec, err := svc.Record("1", 5, 3, nil, "")
	require.NoError(t, err)

	row, err := recordToRow(*rec, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, `[]`, row.Flavors)
}

func TestRowToRecord(t *testing.T) {
	row := validRow()

	rec, err := rowToRecord(row, catalog.Default())
	require.NoError(t, err)
	assert.Equal(t, row.ID, rec.ID)
	assert.Equal(t, row.UserID, rec.OwnerID)
	assert.Equal(t, "Riesling Alsace", rec.Wine.Label)
	assert.True(t, rec.Wine.Revealed)
	assert.Len(t, rec.Flavors, 2)
	assert.Equal(t, time.UTC, rec.Date.Location())
	assert.True(t, rec.Date.Equal(row.CreatedAt))
}

func TestRowToRecord_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*repositories.TastingRow)
	}{
		{"unknown wine", func(r *repositories.TastingRow) { r.WineID = "99" }},
		{"bad flavors", func(r *repositories.TastingRow) { r.Flavors = `{"not":"a list"}` }},
		{"rating out of range", func(r *repositories.TastingRow) { r.Rating = 0 }},
		{"negative price", func(r *repositories.TastingRow) { r.PerceivedPrice = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)
			_, err := rowToRecord(row, catalog.Default())
			assert.ErrorIs(t, err, tastingdomain.ErrMalformed)
		})
	}
}

func TestRowsToRecords_SkipsMalformed(t *testing.T) {
	bad := validRow()
	bad.WineID = "99"
	rows := []repositories.TastingRow{validRow(), bad, validRow()}

	recs := rowsToRecords(context.Background(), rows, catalog.Default(), logger.Nop())
	require.Len(t, recs, 2)
	assert.Equal(t, rows[0].ID, recs[0].ID)
	assert.Equal(t, rows[2].ID, recs[1].ID)

	empty := rowsToRecords(context.Background(), nil, catalog.Default(), logger.Nop())
	assert.NotNil(t, empty)
}
