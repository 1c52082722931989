package models

import (
	"fmt"
	"math"
)

// Price is the taster's blind guess of a bottle's price. Non-negative and finite.
type Price float64

// NewPrice constructs a valid Price or returns an error if negative or not finite.
func NewPrice(v float64) (Price, error) {
	p := Price(v)
	if !p.Valid() {
		return 0, fmt.Errorf("perceived price must be a finite value >= 0, got %v", v)
	}
	return p, nil
}

// Valid reports whether p is finite and non-negative.
func (p Price) Valid() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// Float64 returns the underlying value.
func (p Price) Float64() float64 {
	return float64(p)
}
