package models

import "github.com/ghuser/blindtasting/services/tasting/domain"

// RevealState is the disclosure state of a record's wine. Revealed is terminal.
type RevealState int

const (
	Hidden RevealState = iota
	Revealed
)

func (s RevealState) String() string {
	if s == Revealed {
		return "revealed"
	}
	return "hidden"
}

// RevealState returns the record's current state.
func (r *TastingRecord) RevealState() RevealState {
	if r.Wine.Revealed {
		return Revealed
	}
	return Hidden
}

// Reveal moves the record to Revealed. It reports whether the state changed;
// revealing an already revealed record is a no-op. Records with no wine
// reference cannot be revealed.
func (r *TastingRecord) Reveal() (bool, error) {
	if r.Wine.ID == "" {
		return false, domain.ErrWineNotRevealable
	}
	if r.Wine.Revealed {
		return false, nil
	}
	r.Wine.Revealed = true
	return true, nil
}

// MergeReveal combines a stored flag with an incoming one so the flag never
// goes from true back to false.
func MergeReveal(stored, incoming bool) bool {
	return stored || incoming
}
