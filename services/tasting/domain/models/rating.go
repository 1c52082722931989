package models

import "fmt"

// Rating is a taster's score for one wine, 1 to 10 inclusive.
type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 10
)

// NewRating constructs a valid Rating or returns an error if out of range.
func NewRating(v int) (Rating, error) {
	r := Rating(v)
	if !r.Valid() {
		return 0, fmt.Errorf("rating must be between %d and %d, got %d", MinRating, MaxRating, v)
	}
	return r, nil
}

// Valid reports whether r is within the allowed range.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// Int returns the underlying integer value.
func (r Rating) Int() int {
	return int(r)
}
