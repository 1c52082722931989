package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicTastingChanged is the Watermill topic published after any committed change
// to the shared tasting table.
const TopicTastingChanged = "tasting.changed"

// Op names the kind of change carried by a TastingChangedEvent.
type Op string

const (
	OpInserted Op = "inserted"
	OpUpdated  Op = "updated"
	OpCleared  Op = "cleared"
)

// TastingChangedEvent is a change signal only. Consumers re-read the table rather
// than applying the event as a delta.
type TastingChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	Op         Op        `json:"op"`
	NoteID     uuid.UUID `json:"note_id,omitempty"` // nil for OpCleared
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTastingChangedEvent stamps a version 1 event with a fresh id and the current time.
func NewTastingChangedEvent(op Op, noteID, ownerID uuid.UUID) TastingChangedEvent {
	return TastingChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		Op:         op,
		NoteID:     noteID,
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
	}
}
