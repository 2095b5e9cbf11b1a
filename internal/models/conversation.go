package models

import "github.com/google/uuid"

// DirectConversation is a private conversation between two users, stored
// in canonical order (UserLow < UserHigh).
type DirectConversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserLow   uuid.UUID `db:"user_low" json:"user_low"`
	UserHigh  uuid.UUID `db:"user_high" json:"user_high"`
	CreatedAt Timestamp `db:"created_at" json:"created_at"`
}

func (c DirectConversation) HasParticipant(userID uuid.UUID) bool {
	return c.UserLow == userID || c.UserHigh == userID
}

// ServerConversation is a private conversation between two members of one server.
type ServerConversation struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ServerID   uuid.UUID `db:"server_id" json:"server_id"`
	MemberLow  uuid.UUID `db:"member_low" json:"member_low"`
	MemberHigh uuid.UUID `db:"member_high" json:"member_high"`
	CreatedAt  Timestamp `db:"created_at" json:"created_at"`
}

func (c ServerConversation) HasParticipant(memberID uuid.UUID) bool {
	return c.MemberLow == memberID || c.MemberHigh == memberID
}
