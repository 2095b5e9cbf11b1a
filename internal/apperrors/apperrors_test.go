package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create message: %w", Validation("message needs a body or an image"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrPermission))
	assert.True(t, IsDomain(err))
	assert.Equal(t, "create message: message needs a body or an image", err.Error())
}

func TestStoreErrorsAreNotDomain(t *testing.T) {
	assert.False(t, IsDomain(errors.New("connection refused")))
}
