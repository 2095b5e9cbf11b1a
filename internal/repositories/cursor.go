package repositories

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"chat-core/internal/models"
)

// pageCursor is the position of the last message of a page.
type pageCursor struct {
	createdAt int64
	id        uuid.UUID
}

func encodeCursor(msg models.Message) string {
	raw := strconv.FormatInt(msg.CreatedAt.UnixNano(), 10) + ":" + msg.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return pageCursor{}, ErrInvalidCursor
	}
	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return pageCursor{}, ErrInvalidCursor
	}
	createdAt, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return pageCursor{}, ErrInvalidCursor
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pageCursor{}, ErrInvalidCursor
	}
	return pageCursor{createdAt: createdAt, id: parsed}, nil
}
