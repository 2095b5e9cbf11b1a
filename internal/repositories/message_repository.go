package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MessageRepository defines interactions for messages of every scope.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) error
	GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error)
	Paginate(ctx context.Context, scope models.ScopeSelector, opts models.PageOptions) (models.Page[models.Message], error)
	ListReplies(ctx context.Context, parentID uuid.UUID) ([]models.Message, error)
	UpdateBody(ctx context.Context, messageID uuid.UUID, body string, at models.Timestamp) error
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, scope_kind, channel_id, conversation_id, parent_message_id, author_id, body, image_ref, created_at, updated_at`

// CreateMessage stores a message as given; scope and authorship are resolved by the caller.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		msg.ID, msg.ScopeKind, msg.ChannelID, msg.ConversationID, msg.ParentMessageID, msg.AuthorID, msg.Body, msg.ImageRef, msg.CreatedAt, msg.UpdatedAt)
	return err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, r.db.Rebind(`SELECT `+messageColumns+` FROM messages WHERE id=?`), messageID)
	if isNoRows(err) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// Paginate returns one newest-first page of the selected scope. Channel and
// conversation pages hold top-level messages only; replies are paged by parent.
func (r *MessageRepo) Paginate(ctx context.Context, scope models.ScopeSelector, opts models.PageOptions) (models.Page[models.Message], error) {
	if scope.Count() != 1 {
		return models.Page[models.Message]{}, fmt.Errorf("paginate: exactly one scope selector is required, got %d", scope.Count())
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE `
	var args []any
	switch {
	case scope.ChannelID != nil:
		query += `channel_id=? AND parent_message_id IS NULL`
		args = append(args, *scope.ChannelID)
	case scope.ConversationID != nil:
		query += `conversation_id=? AND parent_message_id IS NULL`
		args = append(args, *scope.ConversationID)
	default:
		query += `parent_message_id=?`
		args = append(args, *scope.ParentMessageID)
	}

	if opts.Cursor != "" {
		cur, err := decodeCursor(opts.Cursor)
		if err != nil {
			return models.Page[models.Message]{}, err
		}
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, cur.createdAt, cur.createdAt, cur.id)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit+1)

	var msgs []models.Message
	if err := r.db.SelectContext(ctx, &msgs, r.db.Rebind(query), args...); err != nil {
		return models.Page[models.Message]{}, err
	}

	page := models.Page[models.Message]{Items: msgs, IsDone: len(msgs) <= limit, HasMore: len(msgs) > limit}
	if !page.IsDone {
		page.Items = msgs[:limit]
	}
	if page.Items == nil {
		page.Items = []models.Message{}
	}
	if n := len(page.Items); n > 0 {
		page.Cursor = encodeCursor(page.Items[n-1])
	} else {
		page.Cursor = opts.Cursor
	}
	return page, nil
}

// ListReplies returns every reply to parentID, oldest first.
func (r *MessageRepo) ListReplies(ctx context.Context, parentID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, r.db.Rebind(`SELECT `+messageColumns+` FROM messages WHERE parent_message_id=? ORDER BY created_at ASC, id ASC`), parentID)
	return msgs, err
}

// UpdateBody replaces the body and stamps updated_at.
func (r *MessageRepo) UpdateBody(ctx context.Context, messageID uuid.UUID, body string, at models.Timestamp) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE messages SET body=?, updated_at=? WHERE id=?`), body, at, messageID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrMessageNotFound)
}

// DeleteMessage removes a message together with its thread: every reply at
// any depth and the reactions on all of them.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		ids := []uuid.UUID{messageID}
		for frontier := ids; len(frontier) > 0; {
			var replies []uuid.UUID
			if err := selectIn(ctx, tx, &replies, `SELECT id FROM messages WHERE parent_message_id IN (?)`, frontier); err != nil {
				return err
			}
			ids = append(ids, replies...)
			frontier = replies
		}

		if err := execIn(ctx, tx, `DELETE FROM reactions WHERE message_id IN (?)`, ids); err != nil {
			return err
		}
		if len(ids) > 1 {
			if err := execIn(ctx, tx, `DELETE FROM messages WHERE id IN (?)`, ids[1:]); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM messages WHERE id=?`), messageID)
		if err != nil {
			return err
		}
		return expectAffected(res, ErrMessageNotFound)
	})
}
