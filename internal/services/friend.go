package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chat-core/internal/apperrors"
	"chat-core/internal/identity"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// FriendService runs the friend request lifecycle. Every pair of users has
// at most one relation row; rejecting or unblocking deletes it.
type FriendService struct {
	friends repositories.FriendRepository
	users   repositories.UserRepository
	now     func() time.Time
}

func NewFriendService(friends repositories.FriendRepository, users repositories.UserRepository) *FriendService {
	return &FriendService{friends: friends, users: users, now: time.Now}
}

func (s *FriendService) CreateRequest(ctx context.Context, callerID, otherUserID uuid.UUID) (models.FriendRequest, error) {
	one, two, err := identity.CanonicalPair(callerID, otherUserID)
	if err != nil {
		return models.FriendRequest{}, apperrors.Validation("cannot befriend yourself")
	}
	if _, err := s.users.GetUser(ctx, otherUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.FriendRequest{}, apperrors.NotFound("user not found")
		}
		return models.FriendRequest{}, err
	}

	existing, err := s.friends.GetByPair(ctx, callerID, otherUserID)
	switch {
	case err == nil && existing.Status == models.FriendBlocked:
		return models.FriendRequest{}, apperrors.Permission("this user cannot be befriended")
	case err == nil:
		return models.FriendRequest{}, apperrors.Conflict("a friend request already exists")
	case !errors.Is(err, repositories.ErrFriendRequestNotFound):
		return models.FriendRequest{}, err
	}

	req := models.FriendRequest{
		ID:          uuid.New(),
		UserOne:     one,
		UserTwo:     two,
		InitiatedBy: callerID,
		Status:      models.FriendPending,
		CreatedAt:   models.NewTimestamp(s.now()),
	}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrFriendRequestExists) {
			return models.FriendRequest{}, apperrors.Conflict("a friend request already exists")
		}
		return models.FriendRequest{}, err
	}
	return req, nil
}

// Accept is only open to the user who received the request.
func (s *FriendService) Accept(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error) {
	req, err := s.participantRequest(ctx, requestID, callerID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.Status != models.FriendPending {
		return models.FriendRequest{}, apperrors.Conflict("friend request is not pending")
	}
	if req.InitiatedBy == callerID {
		return models.FriendRequest{}, apperrors.Permission("cannot accept your own friend request")
	}
	if err := s.friends.UpdateStatus(ctx, req.ID, models.FriendAccepted, req.InitiatedBy); err != nil {
		return models.FriendRequest{}, err
	}
	req.Status = models.FriendAccepted
	return req, nil
}

// Reject withdraws a pending request or ends a friendship, from either side.
func (s *FriendService) Reject(ctx context.Context, requestID, callerID uuid.UUID) error {
	req, err := s.participantRequest(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	if req.Status == models.FriendBlocked {
		return apperrors.Conflict("relation is blocked")
	}
	return s.friends.DeleteRequest(ctx, req.ID)
}

// Block marks the relation blocked with the caller as the blocking user.
func (s *FriendService) Block(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error) {
	req, err := s.participantRequest(ctx, requestID, callerID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.Status == models.FriendBlocked {
		return models.FriendRequest{}, apperrors.Conflict("relation is already blocked")
	}
	if err := s.friends.UpdateStatus(ctx, req.ID, models.FriendBlocked, callerID); err != nil {
		return models.FriendRequest{}, err
	}
	req.Status = models.FriendBlocked
	req.InitiatedBy = callerID
	return req, nil
}

// Unblock removes the relation entirely. Only the blocking user may do it.
func (s *FriendService) Unblock(ctx context.Context, requestID, callerID uuid.UUID) error {
	req, err := s.participantRequest(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	if req.Status != models.FriendBlocked {
		return apperrors.Conflict("relation is not blocked")
	}
	if req.InitiatedBy != callerID {
		return apperrors.Permission("only the blocking user can unblock")
	}
	return s.friends.DeleteRequest(ctx, req.ID)
}

func (s *FriendService) List(ctx context.Context, callerID uuid.UUID) ([]models.FriendRequest, error) {
	reqs, err := s.friends.ListForUser(ctx, callerID)
	if reqs == nil {
		reqs = []models.FriendRequest{}
	}
	return reqs, err
}

// participantRequest hides requests of other users behind not found.
func (s *FriendService) participantRequest(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error) {
	req, err := s.friends.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrFriendRequestNotFound) || (err == nil && !req.HasParticipant(callerID)) {
		return models.FriendRequest{}, apperrors.NotFound("friend request not found")
	}
	return req, err
}
