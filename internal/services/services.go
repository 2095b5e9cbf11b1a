// Package services holds the domain operations of the chat core. Every
// service composes repository interfaces and reports caller mistakes as
// apperrors kinds; anything else is a store or transport failure.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/observability"
)

var validate = validator.New()

// EventPublisher delivers change events to the realtime broker, keyed by room.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

type notifier struct {
	publisher EventPublisher
	log       *zap.Logger
}

// notify never fails the mutation that triggered it.
func (n notifier) notify(ctx context.Context, name, room string, payload any) {
	if n.publisher == nil || room == "" {
		return
	}
	if err := n.publisher.Publish(ctx, room, observability.NewChangeEvent(name, room, payload)); err != nil {
		n.log.Warn("change event not delivered", zap.String("event", name), zap.String("room", room), zap.Error(err))
	}
}

// validateStruct runs the validator and turns its first complaint into a validation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.Validation("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("validate: %w", err)
}

func nopLogger(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
