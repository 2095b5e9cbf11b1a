package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/models"
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, avatar_ref, email, status, created_at`

func (r *UserRepo) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO users (id, name, avatar_ref, email, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		user.ID, user.Name, user.AvatarRef, user.Email, user.Status, user.CreatedAt)
	return err
}

func (r *UserRepo) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id=?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUsersByIDs returns the users that exist among ids, in no particular order.
func (r *UserRepo) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := selectIn(ctx, r.db, &users, `SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	return users, err
}

func (r *UserRepo) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET status=? WHERE id=?`), status, userID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrUserNotFound)
}

func expectAffected(res sql.Result, notFound error) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
