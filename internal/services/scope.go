package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chat-core/internal/apperrors"
	"chat-core/internal/identity"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// scopeAccess is what a caller may do inside one channel or conversation.
// ActorID is the id the caller writes and reacts as: the user id in direct
// scope and the caller's member id in server scopes.
type scopeAccess struct {
	Kind           models.ScopeKind
	ChannelID      *uuid.UUID
	ConversationID *uuid.UUID
	ServerID       *uuid.UUID
	ActorID        uuid.UUID
	PeerID         *uuid.UUID
	Muted          bool
	Room           string
}

type scopeResolver struct {
	conversations repositories.ConversationRepository
	servers       repositories.ServerRepository
	friends       repositories.FriendRepository
}

// writable refuses writes into a direct conversation whose pair is blocked.
// Reading the existing history stays allowed.
func (r scopeResolver) writable(ctx context.Context, access scopeAccess) error {
	if access.Kind != models.ScopeDirect || access.PeerID == nil || r.friends == nil {
		return nil
	}
	return refuseBlocked(ctx, r.friends, access.ActorID, *access.PeerID)
}

func refuseBlocked(ctx context.Context, friends repositories.FriendRepository, userA, userB uuid.UUID) error {
	relation, err := friends.GetByPair(ctx, userA, userB)
	switch {
	case err == nil && relation.Status == models.FriendBlocked:
		return apperrors.Permission("conversation is blocked")
	case err != nil && !errors.Is(err, repositories.ErrFriendRequestNotFound):
		return err
	}
	return nil
}

// forSelector authorizes a channel or conversation selector. Thread
// selectors are resolved through their parent with forMessage.
func (r scopeResolver) forSelector(ctx context.Context, callerID uuid.UUID, sel models.ScopeSelector) (scopeAccess, error) {
	switch {
	case sel.ChannelID != nil:
		return r.forChannel(ctx, callerID, *sel.ChannelID)
	case sel.ConversationID != nil:
		return r.forConversation(ctx, callerID, *sel.ConversationID)
	default:
		return scopeAccess{}, apperrors.Validation("exactly one of channel_id or conversation_id is required")
	}
}

func (r scopeResolver) forMessage(ctx context.Context, callerID uuid.UUID, msg models.Message) (scopeAccess, error) {
	switch {
	case msg.ScopeKind == models.ScopeChannel && msg.ChannelID != nil:
		return r.forChannel(ctx, callerID, *msg.ChannelID)
	case msg.ScopeKind == models.ScopeDirect && msg.ConversationID != nil:
		return r.forDirect(ctx, callerID, *msg.ConversationID)
	case msg.ScopeKind == models.ScopeServerConversation && msg.ConversationID != nil:
		return r.forServerConversation(ctx, callerID, *msg.ConversationID)
	}
	return scopeAccess{}, apperrors.NotFound("message scope not found")
}

func (r scopeResolver) forChannel(ctx context.Context, callerID, channelID uuid.UUID) (scopeAccess, error) {
	channel, err := r.servers.GetChannel(ctx, channelID)
	if errors.Is(err, repositories.ErrChannelNotFound) {
		return scopeAccess{}, apperrors.NotFound("channel not found")
	}
	if err != nil {
		return scopeAccess{}, err
	}
	member, err := r.member(ctx, channel.ServerID, callerID)
	if err != nil {
		return scopeAccess{}, err
	}
	return scopeAccess{
		Kind:      models.ScopeChannel,
		ChannelID: &channel.ID,
		ServerID:  &channel.ServerID,
		ActorID:   member.ID,
		Muted:     member.Muted,
		Room:      identity.ChannelRoomKey(channel.ID),
	}, nil
}

// forConversation accepts either conversation kind; ids are unique across both.
func (r scopeResolver) forConversation(ctx context.Context, callerID, conversationID uuid.UUID) (scopeAccess, error) {
	access, err := r.forDirect(ctx, callerID, conversationID)
	if !errors.Is(err, apperrors.ErrNotFound) {
		return access, err
	}
	return r.forServerConversation(ctx, callerID, conversationID)
}

func (r scopeResolver) forDirect(ctx context.Context, callerID, conversationID uuid.UUID) (scopeAccess, error) {
	conv, err := r.conversations.GetDirect(ctx, conversationID)
	if errors.Is(err, repositories.ErrConversationNotFound) {
		return scopeAccess{}, apperrors.NotFound("conversation not found")
	}
	if err != nil {
		return scopeAccess{}, err
	}
	if !conv.HasParticipant(callerID) {
		return scopeAccess{}, apperrors.Permission("not a participant of this conversation")
	}
	room, err := identity.DirectRoomKey(conv.UserLow, conv.UserHigh)
	if err != nil {
		return scopeAccess{}, err
	}
	peer := conv.UserLow
	if peer == callerID {
		peer = conv.UserHigh
	}
	return scopeAccess{
		Kind:           models.ScopeDirect,
		ConversationID: &conv.ID,
		ActorID:        callerID,
		PeerID:         &peer,
		Room:           room,
	}, nil
}

func (r scopeResolver) forServerConversation(ctx context.Context, callerID, conversationID uuid.UUID) (scopeAccess, error) {
	conv, err := r.conversations.GetServerConversation(ctx, conversationID)
	if errors.Is(err, repositories.ErrConversationNotFound) {
		return scopeAccess{}, apperrors.NotFound("conversation not found")
	}
	if err != nil {
		return scopeAccess{}, err
	}
	member, err := r.member(ctx, conv.ServerID, callerID)
	if err != nil {
		return scopeAccess{}, err
	}
	if !conv.HasParticipant(member.ID) {
		return scopeAccess{}, apperrors.Permission("not a participant of this conversation")
	}
	room, err := identity.ServerRoomKey(conv.ServerID, conv.MemberLow, conv.MemberHigh)
	if err != nil {
		return scopeAccess{}, err
	}
	return scopeAccess{
		Kind:           models.ScopeServerConversation,
		ConversationID: &conv.ID,
		ServerID:       &conv.ServerID,
		ActorID:        member.ID,
		Muted:          member.Muted,
		Room:           room,
	}, nil
}

func (r scopeResolver) member(ctx context.Context, serverID, userID uuid.UUID) (models.ServerMember, error) {
	member, err := r.servers.GetMemberByUser(ctx, serverID, userID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return models.ServerMember{}, apperrors.Permission("not a member of this server")
	}
	return member, err
}
