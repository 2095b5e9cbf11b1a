package models

import "github.com/google/uuid"

// Reaction is one reactor's emoji on one message. ReactorID is a user id in
// direct scope and a server member id otherwise.
type Reaction struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MessageID uuid.UUID `db:"message_id" json:"message_id"`
	ReactorID uuid.UUID `db:"reactor_id" json:"reactor_id"`
	Value     string    `db:"emoji" json:"value"`
	CreatedAt Timestamp `db:"created_at" json:"created_at"`
}

// ReactionGroup is the aggregated view of one emoji on a message.
type ReactionGroup struct {
	Value      string      `json:"value"`
	Count      int         `json:"count"`
	ReactorIDs []uuid.UUID `json:"reactor_ids"`
	Sample     Reaction    `json:"sample"`
}

type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleRemoved ToggleOutcome = "removed"
)

// ToggleResult carries the new reaction id when the toggle added a row.
type ToggleResult struct {
	Outcome    ToggleOutcome `json:"outcome"`
	ReactionID *uuid.UUID    `json:"reaction_id"`
}
