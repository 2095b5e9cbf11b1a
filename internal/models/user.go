package models

import "github.com/google/uuid"

// User is a chat account. Users are never hard-deleted.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AvatarRef *string   `db:"avatar_ref" json:"avatar_ref,omitempty"`
	Email     string    `db:"email" json:"email"`
	Status    string    `db:"status" json:"status"`
	CreatedAt Timestamp `db:"created_at" json:"created_at"`
}
