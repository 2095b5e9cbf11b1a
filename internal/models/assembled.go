package models

import (
	"time"

	"github.com/google/uuid"
)

// Author is the display identity attached to an assembled message.
type Author struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  *uuid.UUID `json:"member_id,omitempty"`
	Name      string     `json:"name"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
}

// ThreadSummary is the preview of the replies to one message. A message
// without replies has Count == 0 and a zero LastReplyAt.
type ThreadSummary struct {
	Count             int       `json:"thread_count"`
	LastReplyAt       time.Time `json:"last_reply_at,omitempty"`
	LastReplierName   string    `json:"last_replier_name,omitempty"`
	LastReplierAvatar *string   `json:"last_replier_avatar,omitempty"`
}

// AssembledMessage is a stored message joined with everything a client renders.
type AssembledMessage struct {
	Message
	User      Author          `json:"user"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Reactions []ReactionGroup `json:"reactions"`
	Thread    ThreadSummary   `json:"thread"`
}
