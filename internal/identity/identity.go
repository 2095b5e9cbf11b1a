// Package identity builds order-independent keys for two-party relations.
//
// Direct conversations, server conversations, friend requests and realtime
// room names all go through CanonicalPair, so a lookup by either party hits
// the same stored row.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrSameParticipant = errors.New("a pair needs two distinct participants")

// CanonicalPair orders two ids by their string form.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	if a == b {
		return uuid.Nil, uuid.Nil, ErrSameParticipant
	}
	if a.String() < b.String() {
		return a, b, nil
	}
	return b, a, nil
}

// DirectRoomKey names the realtime room of a direct conversation.
func DirectRoomKey(a, b uuid.UUID) (string, error) {
	low, high, err := CanonicalPair(a, b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("direct.%s.%s", low, high), nil
}

// ServerRoomKey names the realtime room of a conversation between two members of a server.
func ServerRoomKey(serverID, a, b uuid.UUID) (string, error) {
	low, high, err := CanonicalPair(a, b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("server.%s.%s.%s", serverID, low, high), nil
}

func ChannelRoomKey(channelID uuid.UUID) string {
	return "channel." + channelID.String()
}
