package models

import "github.com/google/uuid"

type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendBlocked  FriendStatus = "blocked"
)

// FriendRequest relates two users in canonical order. For blocked rows
// InitiatedBy is the blocking user.
type FriendRequest struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	UserOne     uuid.UUID    `db:"user_one" json:"user_one"`
	UserTwo     uuid.UUID    `db:"user_two" json:"user_two"`
	InitiatedBy uuid.UUID    `db:"initiated_by" json:"initiated_by"`
	Status      FriendStatus `db:"status" json:"status"`
	CreatedAt   Timestamp    `db:"created_at" json:"created_at"`
}

func (r FriendRequest) HasParticipant(userID uuid.UUID) bool {
	return r.UserOne == userID || r.UserTwo == userID
}
