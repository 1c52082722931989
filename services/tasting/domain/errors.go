package domain

import "errors"

// Sentinel errors for the tasting domain. Use errors.Is() to check these.
var (
	// ErrUnauthenticated indicates a remote operation was attempted without a session identity.
	ErrUnauthenticated = errors.New("no session identity")

	// ErrNotFound indicates an update matched no record owned by the caller. It is non-fatal:
	// nothing was changed.
	ErrNotFound = errors.New("tasting note not found")

	// ErrBackendUnavailable indicates the active store could not be reached or failed mid-operation.
	ErrBackendUnavailable = errors.New("tasting store unavailable")

	// ErrMalformed indicates stored or received data is missing required fields.
	ErrMalformed = errors.New("malformed tasting note")

	// ErrInvalidTasting indicates a new tasting note violates domain constraints.
	ErrInvalidTasting = errors.New("invalid tasting note")

	// ErrTastingAlreadyExists indicates a note with the same id was already saved.
	ErrTastingAlreadyExists = errors.New("tasting note already exists")

	// ErrWineNotRevealable indicates the note carries no wine reference to reveal.
	ErrWineNotRevealable = errors.New("tasting note has no wine to reveal")
)
