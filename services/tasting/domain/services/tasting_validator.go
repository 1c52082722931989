// Package services contains stateless domain services for the tasting bounded context.
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

// ValidateStored checks the fields every persisted record must carry.
// Records failing it are treated as malformed and skipped by readers.
func ValidateStored(rec *models.TastingRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", domain.ErrMalformed)
	}
	if rec.ID == uuid.Nil {
		return fmt.Errorf("%w: id must be set", domain.ErrMalformed)
	}
	if !rec.Rating.Valid() {
		return fmt.Errorf("%w: rating %d out of range", domain.ErrMalformed, rec.Rating)
	}
	if !rec.PerceivedPrice.Valid() {
		return fmt.Errorf("%w: perceived price %v", domain.ErrMalformed, float64(rec.PerceivedPrice))
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date must be set", domain.ErrMalformed)
	}
	return nil
}

// ValidateForCreation performs the checks a record must pass before it is saved.
// It assumes the record was built via models.NewTastingRecord or decoded from a
// request, and rejects anything arriving pre-revealed.
func ValidateForCreation(rec *models.TastingRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record cannot be nil", domain.ErrInvalidTasting)
	}
	if rec.ID == uuid.Nil {
		return fmt.Errorf("%w: id must be set", domain.ErrInvalidTasting)
	}
	if !rec.Rating.Valid() {
		return fmt.Errorf("%w: rating %d out of range", domain.ErrInvalidTasting, rec.Rating)
	}
	if !rec.PerceivedPrice.Valid() {
		return fmt.Errorf("%w: perceived price %v", domain.ErrInvalidTasting, float64(rec.PerceivedPrice))
	}
	if !rec.Flavors.Unique() {
		return fmt.Errorf("%w: flavors must be distinct and non-empty", domain.ErrInvalidTasting)
	}
	if rec.Wine.ID == "" {
		return fmt.Errorf("%w: wine reference is required", domain.ErrInvalidTasting)
	}
	if rec.Wine.Revealed {
		return fmt.Errorf("%w: new notes start hidden", domain.ErrInvalidTasting)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date must be set", domain.ErrInvalidTasting)
	}
	return nil
}
