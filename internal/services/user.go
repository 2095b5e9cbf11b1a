package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

type RegisterUserInput struct {
	Name      string  `validate:"required,min=1,max=64"`
	Email     string  `validate:"required,email,max=254"`
	AvatarRef *string `validate:"omitempty,max=1024"`
}

type UserService struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (models.User, error) {
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:        uuid.New(),
		Name:      in.Name,
		AvatarRef: in.AvatarRef,
		Email:     in.Email,
		Status:    "offline",
		CreatedAt: models.NewTimestamp(s.now()),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, err
}

type statusInput struct {
	Status string `validate:"required,oneof=online idle dnd offline"`
}

// UpdateStatus sets the presence text shown next to the user.
func (s *UserService) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if err := validateStruct(statusInput{Status: status}); err != nil {
		return err
	}
	err := s.users.UpdateStatus(ctx, userID, status)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NotFound("user not found")
	}
	return err
}
