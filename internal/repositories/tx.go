package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"chat-core/internal/db"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrServerNotFound        = errors.New("server not found")
	ErrChannelNotFound       = errors.New("channel not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrRoleNotFound          = errors.New("role not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrAlreadyMember         = errors.New("user is already a member")
	ErrFriendRequestExists   = errors.New("friend request already exists")
	ErrInvalidCursor         = errors.New("invalid cursor")
)

// withTx runs fn inside one transaction, rolling back when fn or the commit fails.
func withTx(ctx context.Context, conn *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// selectIn runs a query with one IN (?) clause expanded for ids.
func selectIn(ctx context.Context, q sqlx.QueryerContext, dest any, query string, args ...any) error {
	expanded, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, sqlx.Rebind(sqlx.BindType(driverName(q)), expanded), inArgs...)
}

func execIn(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	expanded, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(expanded), inArgs...)
	return err
}

func driverName(q sqlx.QueryerContext) string {
	switch v := q.(type) {
	case *sqlx.DB:
		return v.DriverName()
	case *sqlx.Tx:
		return v.DriverName()
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return err != nil && db.IsUniqueViolation(err)
}
