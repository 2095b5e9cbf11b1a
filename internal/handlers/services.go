package handlers

import (
	"context"

	"github.com/google/uuid"

	"chat-core/internal/models"
	"chat-core/internal/services"
)

// The interfaces below are the slices of the services each handler calls.

type MessageService interface {
	CreateMessage(ctx context.Context, in services.CreateMessageInput) (uuid.UUID, error)
	UpdateMessage(ctx context.Context, messageID, callerID uuid.UUID, body string) (models.Message, error)
	DeleteMessage(ctx context.Context, messageID, callerID uuid.UUID) error
}

type MessageReader interface {
	GetPage(ctx context.Context, sel models.ScopeSelector, opts models.PageOptions, callerID uuid.UUID) (models.Page[models.AssembledMessage], error)
	GetMessage(ctx context.Context, messageID, callerID uuid.UUID) (*models.AssembledMessage, error)
}

type ReactionService interface {
	ToggleReaction(ctx context.Context, messageID, callerID uuid.UUID, value string) (models.ToggleResult, error)
}

type ConversationService interface {
	GetOrCreateDirect(ctx context.Context, callerID, otherUserID uuid.UUID) (models.DirectConversation, error)
	GetOrCreateServer(ctx context.Context, serverID, callerID, otherMemberID uuid.UUID) (models.ServerConversation, error)
}

type ServerService interface {
	CreateServer(ctx context.Context, callerID uuid.UUID, name string, imageRef *string) (models.Server, error)
	GetServer(ctx context.Context, serverID, callerID uuid.UUID) (models.Server, error)
	RenameServer(ctx context.Context, serverID, callerID uuid.UUID, name string) error
	CreateChannel(ctx context.Context, serverID, callerID uuid.UUID, name string) (models.Channel, error)
	Join(ctx context.Context, serverID, callerID uuid.UUID) (models.ServerMember, error)
	Leave(ctx context.Context, serverID, callerID uuid.UUID) error
}

type RoleService interface {
	ListRoles(ctx context.Context, serverID, callerID uuid.UUID) ([]models.Role, error)
	CreateRole(ctx context.Context, serverID, callerID uuid.UUID, name string, permissions []models.Permission) (models.Role, error)
	UpdateRole(ctx context.Context, serverID, roleID, callerID uuid.UUID, name *string, permissions []models.Permission) (models.Role, error)
	DeleteRole(ctx context.Context, serverID, roleID, callerID uuid.UUID) error
	AssignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error
	UnassignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error
	SetMuted(ctx context.Context, memberID, callerID uuid.UUID, muted bool) error
}

type PermissionService interface {
	MemberPermission(ctx context.Context, callerID, memberID uuid.UUID, permission models.Permission) (bool, error)
}

type FriendService interface {
	CreateRequest(ctx context.Context, callerID, otherUserID uuid.UUID) (models.FriendRequest, error)
	Accept(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error)
	Reject(ctx context.Context, requestID, callerID uuid.UUID) error
	Block(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error)
	Unblock(ctx context.Context, requestID, callerID uuid.UUID) error
	List(ctx context.Context, callerID uuid.UUID) ([]models.FriendRequest, error)
}

type UserService interface {
	Register(ctx context.Context, in services.RegisterUserInput) (models.User, error)
	Get(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
}

var (
	_ MessageService      = (*services.MessageService)(nil)
	_ MessageReader       = (*services.Assembler)(nil)
	_ ReactionService     = (*services.ReactionService)(nil)
	_ ConversationService = (*services.ConversationService)(nil)
	_ ServerService       = (*services.ServerService)(nil)
	_ RoleService         = (*services.RoleService)(nil)
	_ PermissionService   = (*services.PermissionService)(nil)
	_ FriendService       = (*services.FriendService)(nil)
	_ UserService         = (*services.UserService)(nil)
)
