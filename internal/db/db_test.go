package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectSQLiteMigratesTwice(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.db")

	database, err := Connect(ctx, DriverSQLite, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, database))

	var count int
	require.NoError(t, database.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages`))
	assert.Zero(t, count)
	require.NoError(t, database.Close())
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), "oracle", "", zap.NewNop())
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	database, err := Connect(ctx, DriverSQLite, filepath.Join(t.TempDir(), "chat.db"), zap.NewNop())
	require.NoError(t, err)
	defer database.Close()

	insert := `INSERT INTO direct_conversations (id, user_low, user_high, created_at) VALUES (?, ?, ?, ?)`
	_, err = database.ExecContext(ctx, insert, "c1", "a", "b", 1)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, insert, "c2", "a", "b", 2)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
