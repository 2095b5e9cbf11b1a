package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chat-core/internal/db"
	"chat-core/internal/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Connect(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "chat.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func strPtr(s string) *string { return &s }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func channelMessage(channelID uuid.UUID, author uuid.UUID, body string, offset time.Duration) models.Message {
	return models.Message{
		ID:        uuid.New(),
		ScopeKind: models.ScopeChannel,
		ChannelID: idPtr(channelID),
		AuthorID:  author,
		Body:      strPtr(body),
		CreatedAt: models.NewTimestamp(baseTime.Add(offset)),
	}
}
