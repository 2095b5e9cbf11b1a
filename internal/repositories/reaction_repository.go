package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/models"
)

// ReactionRepository defines reaction persistence.
type ReactionRepository interface {
	Toggle(ctx context.Context, messageID uuid.UUID, reactorID uuid.UUID, value string) (models.ToggleResult, error)
	ListForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]models.Reaction, error)
}

// ReactionRepo is a sqlx-backed repository.
type ReactionRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewReactionRepo constructs ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db, now: time.Now}
}

// Toggle removes the reaction of the exact (message, reactor, value) triple
// when it exists and adds it otherwise.
func (r *ReactionRepo) Toggle(ctx context.Context, messageID uuid.UUID, reactorID uuid.UUID, value string) (models.ToggleResult, error) {
	var result models.ToggleResult
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var existing uuid.UUID
		err := tx.GetContext(ctx, &existing, tx.Rebind(`SELECT id FROM reactions WHERE message_id=? AND reactor_id=? AND emoji=?`), messageID, reactorID, value)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reactions WHERE id=?`), existing); err != nil {
				return err
			}
			result = models.ToggleResult{Outcome: models.ToggleRemoved}
			return nil
		case !isNoRows(err):
			return err
		}

		id := uuid.New()
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO reactions (id, message_id, reactor_id, emoji, created_at) VALUES (?, ?, ?, ?, ?)`),
			id, messageID, reactorID, value, models.NewTimestamp(r.now())); err != nil {
			return err
		}
		result = models.ToggleResult{Outcome: models.ToggleAdded, ReactionID: &id}
		return nil
	})
	return result, err
}

// ListForMessages loads the raw reaction rows of several messages in insertion order.
func (r *ReactionRepo) ListForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]models.Reaction, error) {
	byMessage := make(map[uuid.UUID][]models.Reaction, len(messageIDs))
	if len(messageIDs) == 0 {
		return byMessage, nil
	}
	var rows []models.Reaction
	if err := selectIn(ctx, r.db, &rows, `SELECT id, message_id, reactor_id, emoji, created_at FROM reactions WHERE message_id IN (?) ORDER BY created_at ASC, id ASC`, messageIDs); err != nil {
		return nil, err
	}
	for _, row := range rows {
		byMessage[row.MessageID] = append(byMessage[row.MessageID], row)
	}
	return byMessage, nil
}
