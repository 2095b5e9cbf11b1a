package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/identity"
	"chat-core/internal/models"
	"chat-core/internal/observability"
	"chat-core/internal/repositories"
)

// ConversationService opens direct and server-scoped conversations on first contact.
type ConversationService struct {
	conversations repositories.ConversationRepository
	servers       repositories.ServerRepository
	users         repositories.UserRepository
	friends       repositories.FriendRepository
	notifier
}

func NewConversationService(
	conversations repositories.ConversationRepository,
	servers repositories.ServerRepository,
	users repositories.UserRepository,
	friends repositories.FriendRepository,
	publisher EventPublisher,
	log *zap.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		servers:       servers,
		users:         users,
		friends:       friends,
		notifier:      notifier{publisher: publisher, log: nopLogger(log).Named("conversations")},
	}
}

// GetOrCreateDirect returns the one conversation between callerID and
// otherUserID. Friendship is not required, but a blocked pair cannot talk.
func (s *ConversationService) GetOrCreateDirect(ctx context.Context, callerID, otherUserID uuid.UUID) (models.DirectConversation, error) {
	if callerID == otherUserID {
		return models.DirectConversation{}, apperrors.Validation("cannot open a conversation with yourself")
	}
	if _, err := s.users.GetUser(ctx, otherUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.DirectConversation{}, apperrors.NotFound("user not found")
		}
		return models.DirectConversation{}, err
	}

	if err := refuseBlocked(ctx, s.friends, callerID, otherUserID); err != nil {
		return models.DirectConversation{}, err
	}

	conv, created, err := s.conversations.GetOrCreateDirect(ctx, callerID, otherUserID)
	if err != nil {
		return models.DirectConversation{}, err
	}
	if created {
		observability.IncConversationCreated("direct")
		room, _ := identity.DirectRoomKey(conv.UserLow, conv.UserHigh)
		s.notify(ctx, "conversation.created", room, conv)
	}
	return conv, nil
}

// GetOrCreateServer returns the conversation between the caller's membership
// in serverID and otherMemberID, which must belong to the same server.
func (s *ConversationService) GetOrCreateServer(ctx context.Context, serverID, callerID, otherMemberID uuid.UUID) (models.ServerConversation, error) {
	caller, err := s.servers.GetMemberByUser(ctx, serverID, callerID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return models.ServerConversation{}, apperrors.Permission("not a member of this server")
	}
	if err != nil {
		return models.ServerConversation{}, err
	}

	other, err := s.servers.GetMember(ctx, otherMemberID)
	if errors.Is(err, repositories.ErrMemberNotFound) || (err == nil && other.ServerID != serverID) {
		return models.ServerConversation{}, apperrors.NotFound("member not found in this server")
	}
	if err != nil {
		return models.ServerConversation{}, err
	}
	if other.ID == caller.ID {
		return models.ServerConversation{}, apperrors.Validation("cannot open a conversation with yourself")
	}

	conv, created, err := s.conversations.GetOrCreateServer(ctx, serverID, caller.ID, other.ID)
	if err != nil {
		return models.ServerConversation{}, err
	}
	if created {
		observability.IncConversationCreated("server")
		room, _ := identity.ServerRoomKey(serverID, conv.MemberLow, conv.MemberHigh)
		s.notify(ctx, "conversation.created", room, conv)
	}
	return conv, nil
}
