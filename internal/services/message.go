package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/observability"
	"chat-core/internal/repositories"
)

const maxBodyLength = 4000

// CreateMessageInput names where a message goes. A reply sets only
// ParentMessageID and inherits the parent's scope; otherwise exactly one of
// ChannelID and ConversationID is set.
type CreateMessageInput struct {
	CallerID        uuid.UUID  `validate:"required"`
	ChannelID       *uuid.UUID
	ConversationID  *uuid.UUID
	ParentMessageID *uuid.UUID
	Body            *string
	ImageRef        *string `validate:"omitempty,max=1024"`
}

// MessageService writes messages after authorizing the caller against the target scope.
type MessageService struct {
	messages repositories.MessageRepository
	scopes   scopeResolver
	threads  ThreadInvalidator
	notifier
	now func() time.Time
}

func NewMessageService(
	messages repositories.MessageRepository,
	conversations repositories.ConversationRepository,
	servers repositories.ServerRepository,
	friends repositories.FriendRepository,
	threads ThreadInvalidator,
	publisher EventPublisher,
	log *zap.Logger,
) *MessageService {
	return &MessageService{
		messages: messages,
		scopes:   scopeResolver{conversations: conversations, servers: servers, friends: friends},
		threads:  threads,
		notifier: notifier{publisher: publisher, log: nopLogger(log).Named("messages")},
		now:      time.Now,
	}
}

func (s *MessageService) CreateMessage(ctx context.Context, in CreateMessageInput) (uuid.UUID, error) {
	if err := validateStruct(in); err != nil {
		return uuid.Nil, err
	}
	body := trimmed(in.Body)
	image := trimmed(in.ImageRef)
	if body == nil && image == nil {
		return uuid.Nil, apperrors.Validation("message needs a body or an image")
	}
	if body != nil && utf8.RuneCountInString(*body) > maxBodyLength {
		return uuid.Nil, apperrors.Validation("body is longer than %d characters", maxBodyLength)
	}

	msg := models.Message{ID: uuid.New(), Body: body, ImageRef: image, CreatedAt: models.NewTimestamp(s.now())}

	var access scopeAccess
	var err error
	if in.ParentMessageID != nil {
		parent, err := s.messages.GetMessage(ctx, *in.ParentMessageID)
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return uuid.Nil, apperrors.NotFound("parent message not found")
		}
		if err != nil {
			return uuid.Nil, err
		}
		if !sameID(in.ChannelID, parent.ChannelID) || !sameID(in.ConversationID, parent.ConversationID) {
			return uuid.Nil, apperrors.Validation("a reply must stay in its parent's channel or conversation")
		}
		if access, err = s.scopes.forMessage(ctx, in.CallerID, parent); err != nil {
			return uuid.Nil, err
		}
		msg.ParentMessageID = &parent.ID
	} else {
		sel := models.ScopeSelector{ChannelID: in.ChannelID, ConversationID: in.ConversationID}
		if sel.Count() != 1 {
			return uuid.Nil, apperrors.Validation("exactly one of channel_id or conversation_id is required")
		}
		if access, err = s.scopes.forSelector(ctx, in.CallerID, sel); err != nil {
			return uuid.Nil, err
		}
	}
	if access.Muted {
		return uuid.Nil, apperrors.Permission("muted members cannot post")
	}
	if err := s.scopes.writable(ctx, access); err != nil {
		return uuid.Nil, err
	}

	msg.ScopeKind = access.Kind
	msg.ChannelID = access.ChannelID
	msg.ConversationID = access.ConversationID
	msg.AuthorID = access.ActorID
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return uuid.Nil, err
	}

	observability.IncMessageWrite(string(msg.ScopeKind), "create")
	s.invalidate(ctx, msg.ParentMessageID)
	s.notify(ctx, "message.created", access.Room, msg)
	return msg.ID, nil
}

// UpdateMessage replaces the body. Only the author may edit, and a message
// without an image keeps a non-empty body.
func (s *MessageService) UpdateMessage(ctx context.Context, messageID, callerID uuid.UUID, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > maxBodyLength {
		return models.Message{}, apperrors.Validation("body is longer than %d characters", maxBodyLength)
	}

	msg, access, err := s.authored(ctx, messageID, callerID)
	if err != nil {
		return models.Message{}, err
	}
	if err := s.scopes.writable(ctx, access); err != nil {
		return models.Message{}, err
	}
	if body == "" && msg.ImageRef == nil {
		return models.Message{}, apperrors.Validation("message needs a body or an image")
	}

	at := models.NewTimestamp(s.now())
	if err := s.messages.UpdateBody(ctx, msg.ID, body, at); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return models.Message{}, apperrors.NotFound("message not found")
		}
		return models.Message{}, err
	}
	msg.Body = &body
	msg.UpdatedAt = &at

	observability.IncMessageWrite(string(msg.ScopeKind), "update")
	s.invalidate(ctx, msg.ParentMessageID)
	s.notify(ctx, "message.updated", access.Room, msg)
	return msg, nil
}

// DeleteMessage removes the message, its replies and their reactions.
func (s *MessageService) DeleteMessage(ctx context.Context, messageID, callerID uuid.UUID) error {
	msg, access, err := s.authored(ctx, messageID, callerID)
	if err != nil {
		return err
	}
	if err := s.messages.DeleteMessage(ctx, msg.ID); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return apperrors.NotFound("message not found")
		}
		return err
	}

	observability.IncMessageWrite(string(msg.ScopeKind), "delete")
	s.invalidate(ctx, msg.ParentMessageID)
	s.invalidate(ctx, &msg.ID)
	s.notify(ctx, "message.deleted", access.Room, map[string]any{"id": msg.ID, "parent_message_id": msg.ParentMessageID})
	return nil
}

// authored loads a message the caller wrote. Server scopes compare the
// caller's member id, direct scope the user id.
func (s *MessageService) authored(ctx context.Context, messageID, callerID uuid.UUID) (models.Message, scopeAccess, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.Message{}, scopeAccess{}, apperrors.NotFound("message not found")
	}
	if err != nil {
		return models.Message{}, scopeAccess{}, err
	}
	access, err := s.scopes.forMessage(ctx, callerID, msg)
	if err != nil {
		return models.Message{}, scopeAccess{}, err
	}
	if access.ActorID != msg.AuthorID {
		return models.Message{}, scopeAccess{}, apperrors.Permission("only the author can change this message")
	}
	return msg, access, nil
}

func (s *MessageService) invalidate(ctx context.Context, parentID *uuid.UUID) {
	if s.threads == nil || parentID == nil {
		return
	}
	if err := s.threads.Invalidate(ctx, *parentID); err != nil {
		s.log.Warn("thread summary not invalidated", zap.Stringer("parent_id", *parentID), zap.Error(err))
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	out := strings.TrimSpace(*s)
	if out == "" {
		return nil
	}
	return &out
}

// sameID treats an unset want as matching anything.
func sameID(want, got *uuid.UUID) bool {
	return want == nil || (got != nil && *want == *got)
}
