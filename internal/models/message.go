package models

import "github.com/google/uuid"

// ScopeKind tells which container a message lives in.
type ScopeKind string

const (
	ScopeChannel            ScopeKind = "channel"
	ScopeDirect             ScopeKind = "direct"
	ScopeServerConversation ScopeKind = "server_conversation"
)

// ServerScoped reports whether authors and reactors are server members.
func (k ScopeKind) ServerScoped() bool {
	return k == ScopeChannel || k == ScopeServerConversation
}

// Message is a stored chat message. AuthorID is a user id in direct scope
// and a server member id otherwise. Replies carry ParentMessageID and the
// scope of their parent.
type Message struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ScopeKind       ScopeKind  `db:"scope_kind" json:"scope_kind"`
	ChannelID       *uuid.UUID `db:"channel_id" json:"channel_id,omitempty"`
	ConversationID  *uuid.UUID `db:"conversation_id" json:"conversation_id,omitempty"`
	ParentMessageID *uuid.UUID `db:"parent_message_id" json:"parent_message_id,omitempty"`
	AuthorID        uuid.UUID  `db:"author_id" json:"author_id"`
	Body            *string    `db:"body" json:"body,omitempty"`
	ImageRef        *string    `db:"image_ref" json:"image_ref,omitempty"`
	CreatedAt       Timestamp  `db:"created_at" json:"created_at"`
	UpdatedAt       *Timestamp `db:"updated_at" json:"updated_at,omitempty"`
}

// ScopeSelector picks the messages of exactly one channel, conversation or thread.
type ScopeSelector struct {
	ChannelID       *uuid.UUID
	ConversationID  *uuid.UUID
	ParentMessageID *uuid.UUID
}

// Count returns how many selectors are set.
func (s ScopeSelector) Count() int {
	n := 0
	for _, id := range []*uuid.UUID{s.ChannelID, s.ConversationID, s.ParentMessageID} {
		if id != nil {
			n++
		}
	}
	return n
}

type PageOptions struct {
	Cursor string
	Limit  int
}

// Page is one newest-first slice of a scope.
type Page[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor"`
	IsDone  bool   `json:"is_done"`
	// HasMore is always !IsDone.
	HasMore bool   `json:"has_more"`
}
