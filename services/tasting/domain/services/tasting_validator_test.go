package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

func validRecord(t *testing.T) *models.TastingRecord {
	t.Helper()
	wine, _ := catalog.Default().Lookup("1")
	rec, err := models.NewTastingRecord(wine, 6, 10, models.Flavors{"lemon"}, "")
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestValidateForCreation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.TastingRecord)
		wantErr bool
	}{
		{"valid", func(r *models.TastingRecord) {}, false},
		{"nil id", func(r *models.TastingRecord) { r.ID = uuid.Nil }, true},
		{"rating too high", func(r *models.TastingRecord) { r.Rating = 11 }, true},
		{"negative price", func(r *models.TastingRecord) { r.PerceivedPrice = -2 }, true},
		{"duplicate flavors", func(r *models.TastingRecord) { r.Flavors = models.Flavors{"a", "a"} }, true},
		{"no wine", func(r *models.TastingRecord) { r.Wine = models.TastedWine{} }, true},
		{"pre-revealed", func(r *models.TastingRecord) { r.Wine.Revealed = true }, true},
		{"zero date", func(r *models.TastingRecord) { r.Date = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord(t)
			tt.mutate(rec)
			err := ValidateForCreation(rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForCreation() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidTasting) {
				t.Fatalf("expected ErrInvalidTasting, got %v", err)
			}
		})
	}

	if err := ValidateForCreation(nil); !errors.Is(err, domain.ErrInvalidTasting) {
		t.Fatalf("nil record: expected ErrInvalidTasting, got %v", err)
	}
}

func TestValidateStored(t *testing.T) {
	rec := validRecord(t)
	rec.Wine.Revealed = true
	if err := ValidateStored(rec); err != nil {
		t.Fatalf("revealed stored record must be valid: %v", err)
	}

	rec.Rating = 0
	if err := ValidateStored(rec); !errors.Is(err, domain.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
