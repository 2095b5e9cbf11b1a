package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/identity"
	"chat-core/internal/models"
	"chat-core/internal/observability"
)

// ConversationRepository abstracts direct and server conversation persistence.
type ConversationRepository interface {
	GetOrCreateDirect(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.DirectConversation, bool, error)
	GetDirect(ctx context.Context, conversationID uuid.UUID) (models.DirectConversation, error)
	GetOrCreateServer(ctx context.Context, serverID uuid.UUID, memberA uuid.UUID, memberB uuid.UUID) (models.ServerConversation, bool, error)
	GetServerConversation(ctx context.Context, conversationID uuid.UUID) (models.ServerConversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db  *sqlx.DB
	now func() time.Time

	// beforeInsert runs between the lookup and the insert; tests use it to
	// simulate a concurrent creator.
	beforeInsert func()
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db, now: time.Now}
}

const (
	directColumns = `id, user_low, user_high, created_at`
	serverColumns = `id, server_id, member_low, member_high, created_at`
)

// GetOrCreateDirect returns the conversation of the canonical pair, creating
// it on first contact. The boolean reports whether this call created it.
//
// Two callers may both miss the lookup; the loser's insert violates the
// unique pair constraint and it returns the winner's row instead.
func (r *ConversationRepo) GetOrCreateDirect(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.DirectConversation, bool, error) {
	low, high, err := identity.CanonicalPair(userA, userB)
	if err != nil {
		return models.DirectConversation{}, false, err
	}

	conv, err := r.findDirect(ctx, low, high)
	if err == nil {
		return conv, false, nil
	}
	if err != ErrConversationNotFound {
		return models.DirectConversation{}, false, err
	}

	if r.beforeInsert != nil {
		r.beforeInsert()
	}

	conv = models.DirectConversation{ID: uuid.New(), UserLow: low, UserHigh: high, CreatedAt: models.NewTimestamp(r.now())}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO direct_conversations (id, user_low, user_high, created_at) VALUES (?, ?, ?, ?)`),
		conv.ID, conv.UserLow, conv.UserHigh, conv.CreatedAt)
	if isUniqueViolation(err) {
		observability.IncConversationConflict("direct")
		conv, err = r.findDirect(ctx, low, high)
		return conv, false, err
	}
	if err != nil {
		return models.DirectConversation{}, false, err
	}
	return conv, true, nil
}

func (r *ConversationRepo) GetDirect(ctx context.Context, conversationID uuid.UUID) (models.DirectConversation, error) {
	var conv models.DirectConversation
	err := r.db.GetContext(ctx, &conv, r.db.Rebind(`SELECT `+directColumns+` FROM direct_conversations WHERE id=?`), conversationID)
	if isNoRows(err) {
		return models.DirectConversation{}, ErrConversationNotFound
	}
	return conv, err
}

// GetOrCreateServer is GetOrCreateDirect for two members of one server.
func (r *ConversationRepo) GetOrCreateServer(ctx context.Context, serverID uuid.UUID, memberA uuid.UUID, memberB uuid.UUID) (models.ServerConversation, bool, error) {
	low, high, err := identity.CanonicalPair(memberA, memberB)
	if err != nil {
		return models.ServerConversation{}, false, err
	}

	conv, err := r.findServer(ctx, serverID, low, high)
	if err == nil {
		return conv, false, nil
	}
	if err != ErrConversationNotFound {
		return models.ServerConversation{}, false, err
	}

	if r.beforeInsert != nil {
		r.beforeInsert()
	}

	conv = models.ServerConversation{ID: uuid.New(), ServerID: serverID, MemberLow: low, MemberHigh: high, CreatedAt: models.NewTimestamp(r.now())}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO server_conversations (id, server_id, member_low, member_high, created_at) VALUES (?, ?, ?, ?, ?)`),
		conv.ID, conv.ServerID, conv.MemberLow, conv.MemberHigh, conv.CreatedAt)
	if isUniqueViolation(err) {
		observability.IncConversationConflict("server")
		conv, err = r.findServer(ctx, serverID, low, high)
		return conv, false, err
	}
	if err != nil {
		return models.ServerConversation{}, false, err
	}
	return conv, true, nil
}

func (r *ConversationRepo) GetServerConversation(ctx context.Context, conversationID uuid.UUID) (models.ServerConversation, error) {
	var conv models.ServerConversation
	err := r.db.GetContext(ctx, &conv, r.db.Rebind(`SELECT `+serverColumns+` FROM server_conversations WHERE id=?`), conversationID)
	if isNoRows(err) {
		return models.ServerConversation{}, ErrConversationNotFound
	}
	return conv, err
}

func (r *ConversationRepo) findDirect(ctx context.Context, low, high uuid.UUID) (models.DirectConversation, error) {
	var conv models.DirectConversation
	err := r.db.GetContext(ctx, &conv, r.db.Rebind(`SELECT `+directColumns+` FROM direct_conversations WHERE user_low=? AND user_high=?`), low, high)
	if isNoRows(err) {
		return models.DirectConversation{}, ErrConversationNotFound
	}
	return conv, err
}

func (r *ConversationRepo) findServer(ctx context.Context, serverID, low, high uuid.UUID) (models.ServerConversation, error) {
	var conv models.ServerConversation
	err := r.db.GetContext(ctx, &conv, r.db.Rebind(`SELECT `+serverColumns+` FROM server_conversations WHERE server_id=? AND member_low=? AND member_high=?`), serverID, low, high)
	if isNoRows(err) {
		return models.ServerConversation{}, ErrConversationNotFound
	}
	return conv, err
}
