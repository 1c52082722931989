package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/services/tasting/domain"
	"github.com/ghuser/blindtasting/services/tasting/domain/catalog"
)

// TastedWine is a record's copy of a catalog entry plus its own reveal flag.
// The catalog entry itself is never mutated.
type TastedWine struct {
	catalog.Wine
	Revealed bool `json:"isRevealed"`
}

// TastingRecord is one taster's evaluation of one wine.
// Every field except Wine.Revealed is immutable after creation.
type TastingRecord struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"-"` // set for remote rows only
	Rating         Rating     `json:"rating"`
	PerceivedPrice Price      `json:"perceivedPrice"`
	Flavors        Flavors    `json:"flavors"`
	Comments       string     `json:"comments"`
	Wine           TastedWine `json:"wine"`
	Date           time.Time  `json:"date"`
}

// NewTastingRecord constructs a hidden TastingRecord with a generated ID and current timestamp.
func NewTastingRecord(wine catalog.Wine, rating Rating, price Price, flavors Flavors, comments string) (*TastingRecord, error) {
	if wine.ID == "" {
		return nil, fmt.Errorf("%w: wine reference is required", domain.ErrInvalidTasting)
	}
	if !rating.Valid() {
		return nil, fmt.Errorf("%w: rating %d out of range", domain.ErrInvalidTasting, rating)
	}
	if !price.Valid() {
		return nil, fmt.Errorf("%w: perceived price %v", domain.ErrInvalidTasting, float64(price))
	}
	if !flavors.Unique() {
		return nil, fmt.Errorf("%w: flavors must be distinct", domain.ErrInvalidTasting)
	}
	if flavors == nil {
		flavors = Flavors{}
	}
	return &TastingRecord{
		ID:             uuid.New(),
		Rating:         rating,
		PerceivedPrice: price,
		Flavors:        append(Flavors(nil), flavors...),
		Comments:       comments,
		Wine:           TastedWine{Wine: wine.Clone()},
		Date:           time.Now().UTC(),
	}, nil
}

// Clone returns a deep copy of r.
func (r *TastingRecord) Clone() *TastingRecord {
	out := *r
	out.Wine.Wine = r.Wine.Clone()
	if r.Flavors != nil {
		out.Flavors = append(Flavors(nil), r.Flavors...)
	}
	return &out
}
