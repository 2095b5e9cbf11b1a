package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-core/internal/apperrors"
)

func TestUserRegistrationAndStatus(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	_, err := w.userSvc.Register(ctx, RegisterUserInput{Name: "x", Email: "not-an-email"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	u := w.user(t, "alice")
	assert.Equal(t, "offline", u.Status)

	require.NoError(t, w.userSvc.UpdateStatus(ctx, u.ID, "dnd"))
	got, err := w.userSvc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dnd", got.Status)

	assert.ErrorIs(t, w.userSvc.UpdateStatus(ctx, u.ID, "sleeping"), apperrors.ErrValidation)
	assert.ErrorIs(t, w.userSvc.UpdateStatus(ctx, uuid.New(), "idle"), apperrors.ErrNotFound)
	_, err = w.userSvc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
