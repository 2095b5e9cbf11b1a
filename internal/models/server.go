package models

import "github.com/google/uuid"

// EveryoneRoleName is the synthetic role every server may carry.
const EveryoneRoleName = "@everyone"

// Server groups channels, members and roles. OwnerID is a user id.
type Server struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	ImageRef  *string   `db:"image_ref" json:"image_ref,omitempty"`
	CreatedAt Timestamp `db:"created_at" json:"created_at"`
}

type Channel struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ServerID  uuid.UUID `db:"server_id" json:"server_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt Timestamp `db:"created_at" json:"created_at"`
}

// ServerMember links a user to a server. The member owns its role-id set.
type ServerMember struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	ServerID  uuid.UUID   `db:"server_id" json:"server_id"`
	UserID    uuid.UUID   `db:"user_id" json:"user_id"`
	Muted     bool        `db:"muted" json:"muted"`
	RoleIDs   []uuid.UUID `db:"-" json:"role_ids"`
	CreatedAt Timestamp   `db:"created_at" json:"created_at"`
}

type Role struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	ServerID    uuid.UUID    `db:"server_id" json:"server_id"`
	Name        string       `db:"name" json:"name"`
	Permissions []Permission `db:"-" json:"permissions"`
	CreatedAt   Timestamp    `db:"created_at" json:"created_at"`
}
