package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/models"
)

// ServerRepository abstracts servers, their channels and their members.
type ServerRepository interface {
	CreateServer(ctx context.Context, server models.Server, owner models.ServerMember) error
	GetServer(ctx context.Context, serverID uuid.UUID) (models.Server, error)
	RenameServer(ctx context.Context, serverID uuid.UUID, name string) error
	CreateChannel(ctx context.Context, channel models.Channel) error
	GetChannel(ctx context.Context, channelID uuid.UUID) (models.Channel, error)
	AddMember(ctx context.Context, member models.ServerMember) error
	RemoveMember(ctx context.Context, memberID uuid.UUID) error
	GetMember(ctx context.Context, memberID uuid.UUID) (models.ServerMember, error)
	GetMemberByUser(ctx context.Context, serverID uuid.UUID, userID uuid.UUID) (models.ServerMember, error)
	GetMembersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServerMember, error)
	SetMemberMuted(ctx context.Context, memberID uuid.UUID, muted bool) error
}

// ServerRepo is a sqlx implementation of ServerRepository.
type ServerRepo struct {
	db *sqlx.DB
}

// NewServerRepo constructs a ServerRepo.
func NewServerRepo(db *sqlx.DB) *ServerRepo {
	return &ServerRepo{db: db}
}

const memberColumns = `id, server_id, user_id, muted, created_at`

// CreateServer stores the server and its owner's membership atomically.
func (r *ServerRepo) CreateServer(ctx context.Context, server models.Server, owner models.ServerMember) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO servers (id, name, owner_id, image_ref, created_at) VALUES (?, ?, ?, ?, ?)`),
			server.ID, server.Name, server.OwnerID, server.ImageRef, server.CreatedAt); err != nil {
			return err
		}
		return insertMember(ctx, tx, owner)
	})
}

func (r *ServerRepo) GetServer(ctx context.Context, serverID uuid.UUID) (models.Server, error) {
	var server models.Server
	err := r.db.GetContext(ctx, &server, r.db.Rebind(`SELECT id, name, owner_id, image_ref, created_at FROM servers WHERE id=?`), serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Server{}, ErrServerNotFound
	}
	return server, err
}

func (r *ServerRepo) RenameServer(ctx context.Context, serverID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE servers SET name=? WHERE id=?`), name, serverID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrServerNotFound)
}

func (r *ServerRepo) CreateChannel(ctx context.Context, channel models.Channel) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO channels (id, server_id, name, created_at) VALUES (?, ?, ?, ?)`),
		channel.ID, channel.ServerID, channel.Name, channel.CreatedAt)
	return err
}

func (r *ServerRepo) GetChannel(ctx context.Context, channelID uuid.UUID) (models.Channel, error) {
	var channel models.Channel
	err := r.db.GetContext(ctx, &channel, r.db.Rebind(`SELECT id, server_id, name, created_at FROM channels WHERE id=?`), channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, ErrChannelNotFound
	}
	return channel, err
}

// AddMember inserts a membership; a second membership for the same user fails with ErrAlreadyMember.
func (r *ServerRepo) AddMember(ctx context.Context, member models.ServerMember) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return insertMember(ctx, tx, member)
	})
}

// RemoveMember deletes the membership and its role assignments.
func (r *ServerRepo) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM member_roles WHERE member_id=?`), memberID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM server_members WHERE id=?`), memberID)
		if err != nil {
			return err
		}
		return expectAffected(res, ErrMemberNotFound)
	})
}

// GetMember returns the member with its role-id set.
func (r *ServerRepo) GetMember(ctx context.Context, memberID uuid.UUID) (models.ServerMember, error) {
	var member models.ServerMember
	err := r.db.GetContext(ctx, &member, r.db.Rebind(`SELECT `+memberColumns+` FROM server_members WHERE id=?`), memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServerMember{}, ErrMemberNotFound
	}
	if err != nil {
		return models.ServerMember{}, err
	}
	return r.withRoleIDs(ctx, member)
}

func (r *ServerRepo) GetMemberByUser(ctx context.Context, serverID uuid.UUID, userID uuid.UUID) (models.ServerMember, error) {
	var member models.ServerMember
	err := r.db.GetContext(ctx, &member, r.db.Rebind(`SELECT `+memberColumns+` FROM server_members WHERE server_id=? AND user_id=?`), serverID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServerMember{}, ErrMemberNotFound
	}
	if err != nil {
		return models.ServerMember{}, err
	}
	return r.withRoleIDs(ctx, member)
}

// GetMembersByIDs returns existing members among ids without their role sets.
func (r *ServerRepo) GetMembersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServerMember, error) {
	if len(ids) == 0 {
		return []models.ServerMember{}, nil
	}
	var members []models.ServerMember
	err := selectIn(ctx, r.db, &members, `SELECT `+memberColumns+` FROM server_members WHERE id IN (?)`, ids)
	return members, err
}

func (r *ServerRepo) SetMemberMuted(ctx context.Context, memberID uuid.UUID, muted bool) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE server_members SET muted=? WHERE id=?`), muted, memberID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrMemberNotFound)
}

func (r *ServerRepo) withRoleIDs(ctx context.Context, member models.ServerMember) (models.ServerMember, error) {
	var roleIDs []uuid.UUID
	if err := r.db.SelectContext(ctx, &roleIDs, r.db.Rebind(`SELECT role_id FROM member_roles WHERE member_id=? ORDER BY role_id`), member.ID); err != nil {
		return models.ServerMember{}, err
	}
	member.RoleIDs = roleIDs
	return member, nil
}

func insertMember(ctx context.Context, tx *sqlx.Tx, member models.ServerMember) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO server_members (id, server_id, user_id, muted, created_at) VALUES (?, ?, ?, ?, ?)`),
		member.ID, member.ServerID, member.UserID, member.Muted, member.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}
