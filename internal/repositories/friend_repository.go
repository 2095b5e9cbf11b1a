package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-core/internal/identity"
	"chat-core/internal/models"
)

// FriendRepository abstracts friend request persistence.
type FriendRepository interface {
	CreateRequest(ctx context.Context, req models.FriendRequest) error
	GetRequest(ctx context.Context, requestID uuid.UUID) (models.FriendRequest, error)
	GetByPair(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.FriendRequest, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error)
	UpdateStatus(ctx context.Context, requestID uuid.UUID, status models.FriendStatus, initiatedBy uuid.UUID) error
	DeleteRequest(ctx context.Context, requestID uuid.UUID) error
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

const friendColumns = `id, user_one, user_two, initiated_by, status, created_at`

// CreateRequest stores a request whose pair is already canonical. A second
// row for the same pair fails with ErrFriendRequestExists.
func (r *FriendRepo) CreateRequest(ctx context.Context, req models.FriendRequest) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO friend_requests (`+friendColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		req.ID, req.UserOne, req.UserTwo, req.InitiatedBy, req.Status, req.CreatedAt)
	if isUniqueViolation(err) {
		return ErrFriendRequestExists
	}
	return err
}

func (r *FriendRepo) GetRequest(ctx context.Context, requestID uuid.UUID) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, r.db.Rebind(`SELECT `+friendColumns+` FROM friend_requests WHERE id=?`), requestID)
	if isNoRows(err) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	return req, err
}

// GetByPair looks the relation up by either party order.
func (r *FriendRepo) GetByPair(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.FriendRequest, error) {
	one, two, err := identity.CanonicalPair(userA, userB)
	if err != nil {
		return models.FriendRequest{}, err
	}
	var req models.FriendRequest
	err = r.db.GetContext(ctx, &req, r.db.Rebind(`SELECT `+friendColumns+` FROM friend_requests WHERE user_one=? AND user_two=?`), one, two)
	if isNoRows(err) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	return req, err
}

func (r *FriendRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, r.db.Rebind(`SELECT `+friendColumns+` FROM friend_requests WHERE user_one=? OR user_two=? ORDER BY created_at DESC`), userID, userID)
	return reqs, err
}

func (r *FriendRepo) UpdateStatus(ctx context.Context, requestID uuid.UUID, status models.FriendStatus, initiatedBy uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE friend_requests SET status=?, initiated_by=? WHERE id=?`), status, initiatedBy, requestID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrFriendRequestNotFound)
}

func (r *FriendRepo) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM friend_requests WHERE id=?`), requestID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrFriendRequestNotFound)
}
