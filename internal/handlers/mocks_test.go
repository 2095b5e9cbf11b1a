package handlers

// Service mocks live here rather than in internal/mocks: they need the
// services input types, and services tests import internal/mocks.

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chat-core/internal/models"
	"chat-core/internal/services"
)

type MessageServiceMock struct {
	mock.Mock
}

func (m *MessageServiceMock) CreateMessage(ctx context.Context, in services.CreateMessageInput) (uuid.UUID, error) {
	args := m.Called(ctx, in)
	var id uuid.UUID
	if val := args.Get(0); val != nil {
		id = val.(uuid.UUID)
	}
	return id, args.Error(1)
}

func (m *MessageServiceMock) UpdateMessage(ctx context.Context, messageID, callerID uuid.UUID, body string) (models.Message, error) {
	args := m.Called(ctx, messageID, callerID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageServiceMock) DeleteMessage(ctx context.Context, messageID, callerID uuid.UUID) error {
	args := m.Called(ctx, messageID, callerID)
	return args.Error(0)
}

type MessageReaderMock struct {
	mock.Mock
}

func (m *MessageReaderMock) GetPage(ctx context.Context, sel models.ScopeSelector, opts models.PageOptions, callerID uuid.UUID) (models.Page[models.AssembledMessage], error) {
	args := m.Called(ctx, sel, opts, callerID)
	var page models.Page[models.AssembledMessage]
	if val := args.Get(0); val != nil {
		page = val.(models.Page[models.AssembledMessage])
	}
	return page, args.Error(1)
}

func (m *MessageReaderMock) GetMessage(ctx context.Context, messageID, callerID uuid.UUID) (*models.AssembledMessage, error) {
	args := m.Called(ctx, messageID, callerID)
	var msg *models.AssembledMessage
	if val := args.Get(0); val != nil {
		msg = val.(*models.AssembledMessage)
	}
	return msg, args.Error(1)
}

type ReactionServiceMock struct {
	mock.Mock
}

func (m *ReactionServiceMock) ToggleReaction(ctx context.Context, messageID, callerID uuid.UUID, value string) (models.ToggleResult, error) {
	args := m.Called(ctx, messageID, callerID, value)
	var result models.ToggleResult
	if val := args.Get(0); val != nil {
		result = val.(models.ToggleResult)
	}
	return result, args.Error(1)
}

type ConversationServiceMock struct {
	mock.Mock
}

func (m *ConversationServiceMock) GetOrCreateDirect(ctx context.Context, callerID, otherUserID uuid.UUID) (models.DirectConversation, error) {
	args := m.Called(ctx, callerID, otherUserID)
	var conv models.DirectConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.DirectConversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationServiceMock) GetOrCreateServer(ctx context.Context, serverID, callerID, otherMemberID uuid.UUID) (models.ServerConversation, error) {
	args := m.Called(ctx, serverID, callerID, otherMemberID)
	var conv models.ServerConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.ServerConversation)
	}
	return conv, args.Error(1)
}

type PermissionServiceMock struct {
	mock.Mock
}

func (m *PermissionServiceMock) MemberPermission(ctx context.Context, callerID, memberID uuid.UUID, permission models.Permission) (bool, error) {
	args := m.Called(ctx, callerID, memberID, permission)
	return args.Bool(0), args.Error(1)
}

type ServerServiceMock struct {
	mock.Mock
}

func (m *ServerServiceMock) CreateServer(ctx context.Context, callerID uuid.UUID, name string, imageRef *string) (models.Server, error) {
	args := m.Called(ctx, callerID, name, imageRef)
	var server models.Server
	if val := args.Get(0); val != nil {
		server = val.(models.Server)
	}
	return server, args.Error(1)
}

func (m *ServerServiceMock) GetServer(ctx context.Context, serverID, callerID uuid.UUID) (models.Server, error) {
	args := m.Called(ctx, serverID, callerID)
	var server models.Server
	if val := args.Get(0); val != nil {
		server = val.(models.Server)
	}
	return server, args.Error(1)
}

func (m *ServerServiceMock) RenameServer(ctx context.Context, serverID, callerID uuid.UUID, name string) error {
	args := m.Called(ctx, serverID, callerID, name)
	return args.Error(0)
}

func (m *ServerServiceMock) CreateChannel(ctx context.Context, serverID, callerID uuid.UUID, name string) (models.Channel, error) {
	args := m.Called(ctx, serverID, callerID, name)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ServerServiceMock) Join(ctx context.Context, serverID, callerID uuid.UUID) (models.ServerMember, error) {
	args := m.Called(ctx, serverID, callerID)
	var member models.ServerMember
	if val := args.Get(0); val != nil {
		member = val.(models.ServerMember)
	}
	return member, args.Error(1)
}

func (m *ServerServiceMock) Leave(ctx context.Context, serverID, callerID uuid.UUID) error {
	args := m.Called(ctx, serverID, callerID)
	return args.Error(0)
}

type RoleServiceMock struct {
	mock.Mock
}

func (m *RoleServiceMock) ListRoles(ctx context.Context, serverID, callerID uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, serverID, callerID)
	var roles []models.Role
	if val := args.Get(0); val != nil {
		roles = val.([]models.Role)
	}
	return roles, args.Error(1)
}

func (m *RoleServiceMock) CreateRole(ctx context.Context, serverID, callerID uuid.UUID, name string, permissions []models.Permission) (models.Role, error) {
	args := m.Called(ctx, serverID, callerID, name, permissions)
	var role models.Role
	if val := args.Get(0); val != nil {
		role = val.(models.Role)
	}
	return role, args.Error(1)
}

func (m *RoleServiceMock) UpdateRole(ctx context.Context, serverID, roleID, callerID uuid.UUID, name *string, permissions []models.Permission) (models.Role, error) {
	args := m.Called(ctx, serverID, roleID, callerID, name, permissions)
	var role models.Role
	if val := args.Get(0); val != nil {
		role = val.(models.Role)
	}
	return role, args.Error(1)
}

func (m *RoleServiceMock) DeleteRole(ctx context.Context, serverID, roleID, callerID uuid.UUID) error {
	args := m.Called(ctx, serverID, roleID, callerID)
	return args.Error(0)
}

func (m *RoleServiceMock) AssignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error {
	args := m.Called(ctx, serverID, roleID, memberID, callerID)
	return args.Error(0)
}

func (m *RoleServiceMock) UnassignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error {
	args := m.Called(ctx, serverID, roleID, memberID, callerID)
	return args.Error(0)
}

func (m *RoleServiceMock) SetMuted(ctx context.Context, memberID, callerID uuid.UUID, muted bool) error {
	args := m.Called(ctx, memberID, callerID, muted)
	return args.Error(0)
}

type FriendServiceMock struct {
	mock.Mock
}

func (m *FriendServiceMock) CreateRequest(ctx context.Context, callerID, otherUserID uuid.UUID) (models.FriendRequest, error) {
	args := m.Called(ctx, callerID, otherUserID)
	return friendRequest(args.Get(0)), args.Error(1)
}

func (m *FriendServiceMock) Accept(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, callerID)
	return friendRequest(args.Get(0)), args.Error(1)
}

func (m *FriendServiceMock) Reject(ctx context.Context, requestID, callerID uuid.UUID) error {
	args := m.Called(ctx, requestID, callerID)
	return args.Error(0)
}

func (m *FriendServiceMock) Block(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, callerID)
	return friendRequest(args.Get(0)), args.Error(1)
}

func (m *FriendServiceMock) Unblock(ctx context.Context, requestID, callerID uuid.UUID) error {
	args := m.Called(ctx, requestID, callerID)
	return args.Error(0)
}

func (m *FriendServiceMock) List(ctx context.Context, callerID uuid.UUID) ([]models.FriendRequest, error) {
	args := m.Called(ctx, callerID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func friendRequest(val any) models.FriendRequest {
	if val == nil {
		return models.FriendRequest{}
	}
	return val.(models.FriendRequest)
}

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Register(ctx context.Context, in services.RegisterUserInput) (models.User, error) {
	args := m.Called(ctx, in)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserServiceMock) Get(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserServiceMock) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}
