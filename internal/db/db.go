package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Connect opens the configured database and applies migrations.
func Connect(ctx context.Context, driver, dsn string, log *zap.Logger) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between concurrent transactions
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set sqlite pragma: %w", err)
		}
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database ready", zap.String("driver", driver))
	return db, nil
}

// Migrate creates the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range tableMigrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	for _, idx := range indexMigrations {
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s", idx.name, idx.on)
		if db.DriverName() != DriverMySQL {
			stmt = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s", idx.name, idx.on)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil && !isDuplicateIndex(err) {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

var tableMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id VARCHAR(36) PRIMARY KEY,
            name VARCHAR(64) NOT NULL,
            avatar_ref TEXT,
            email VARCHAR(255) NOT NULL,
            status VARCHAR(64) NOT NULL DEFAULT '',
            created_at BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS servers (
            id VARCHAR(36) PRIMARY KEY,
            name VARCHAR(100) NOT NULL,
            owner_id VARCHAR(36) NOT NULL,
            image_ref TEXT,
            created_at BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS channels (
            id VARCHAR(36) PRIMARY KEY,
            server_id VARCHAR(36) NOT NULL,
            name VARCHAR(100) NOT NULL,
            created_at BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS server_members (
            id VARCHAR(36) PRIMARY KEY,
            server_id VARCHAR(36) NOT NULL,
            user_id VARCHAR(36) NOT NULL,
            muted BOOLEAN NOT NULL DEFAULT FALSE,
            created_at BIGINT NOT NULL,
            UNIQUE(server_id, user_id)
        )`,
	`CREATE TABLE IF NOT EXISTS roles (
            id VARCHAR(36) PRIMARY KEY,
            server_id VARCHAR(36) NOT NULL,
            name VARCHAR(64) NOT NULL,
            created_at BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS role_permissions (
            role_id VARCHAR(36) NOT NULL,
            permission VARCHAR(32) NOT NULL,
            PRIMARY KEY(role_id, permission)
        )`,
	`CREATE TABLE IF NOT EXISTS member_roles (
            member_id VARCHAR(36) NOT NULL,
            role_id VARCHAR(36) NOT NULL,
            PRIMARY KEY(member_id, role_id)
        )`,
	`CREATE TABLE IF NOT EXISTS direct_conversations (
            id VARCHAR(36) PRIMARY KEY,
            user_low VARCHAR(36) NOT NULL,
            user_high VARCHAR(36) NOT NULL,
            created_at BIGINT NOT NULL,
            UNIQUE(user_low, user_high)
        )`,
	`CREATE TABLE IF NOT EXISTS server_conversations (
            id VARCHAR(36) PRIMARY KEY,
            server_id VARCHAR(36) NOT NULL,
            member_low VARCHAR(36) NOT NULL,
            member_high VARCHAR(36) NOT NULL,
            created_at BIGINT NOT NULL,
            UNIQUE(server_id, member_low, member_high)
        )`,
	`CREATE TABLE IF NOT EXISTS messages (
            id VARCHAR(36) PRIMARY KEY,
            scope_kind VARCHAR(32) NOT NULL,
            channel_id VARCHAR(36),
            conversation_id VARCHAR(36),
            parent_message_id VARCHAR(36),
            author_id VARCHAR(36) NOT NULL,
            body TEXT,
            image_ref TEXT,
            created_at BIGINT NOT NULL,
            updated_at BIGINT
        )`,
	`CREATE TABLE IF NOT EXISTS reactions (
            id VARCHAR(36) PRIMARY KEY,
            message_id VARCHAR(36) NOT NULL,
            reactor_id VARCHAR(36) NOT NULL,
            emoji VARCHAR(64) NOT NULL,
            created_at BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
            id VARCHAR(36) PRIMARY KEY,
            user_one VARCHAR(36) NOT NULL,
            user_two VARCHAR(36) NOT NULL,
            initiated_by VARCHAR(36) NOT NULL,
            status VARCHAR(16) NOT NULL,
            created_at BIGINT NOT NULL,
            UNIQUE(user_one, user_two)
        )`,
}

type index struct {
	name string
	on   string
}

var indexMigrations = []index{
	{"idx_messages_channel", "messages (channel_id, created_at)"},
	{"idx_messages_conversation", "messages (conversation_id, created_at)"},
	{"idx_messages_parent", "messages (parent_message_id, created_at)"},
	{"idx_reactions_message", "reactions (message_id, reactor_id)"},
	{"idx_channels_server", "channels (server_id)"},
	{"idx_roles_server", "roles (server_id)"},
}

// IsUniqueViolation reports whether err is a unique-constraint failure on any supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
		return false
	}
	return false
}

func isDuplicateIndex(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1061
	}
	return strings.Contains(err.Error(), "already exists")
}
