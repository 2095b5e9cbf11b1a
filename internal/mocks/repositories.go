package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

var (
	_ repositories.UserRepository         = (*UserRepositoryMock)(nil)
	_ repositories.ServerRepository       = (*ServerRepositoryMock)(nil)
	_ repositories.RoleRepository         = (*RoleRepositoryMock)(nil)
	_ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
	_ repositories.FriendRepository       = (*FriendRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.ReactionRepository     = (*ReactionRepositoryMock)(nil)
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

type ServerRepositoryMock struct {
	mock.Mock
}

func (m *ServerRepositoryMock) CreateServer(ctx context.Context, server models.Server, owner models.ServerMember) error {
	args := m.Called(ctx, server, owner)
	return args.Error(0)
}

func (m *ServerRepositoryMock) GetServer(ctx context.Context, serverID uuid.UUID) (models.Server, error) {
	args := m.Called(ctx, serverID)
	var server models.Server
	if val := args.Get(0); val != nil {
		server = val.(models.Server)
	}
	return server, args.Error(1)
}

func (m *ServerRepositoryMock) RenameServer(ctx context.Context, serverID uuid.UUID, name string) error {
	args := m.Called(ctx, serverID, name)
	return args.Error(0)
}

func (m *ServerRepositoryMock) CreateChannel(ctx context.Context, channel models.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *ServerRepositoryMock) GetChannel(ctx context.Context, channelID uuid.UUID) (models.Channel, error) {
	args := m.Called(ctx, channelID)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ServerRepositoryMock) AddMember(ctx context.Context, member models.ServerMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *ServerRepositoryMock) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *ServerRepositoryMock) GetMember(ctx context.Context, memberID uuid.UUID) (models.ServerMember, error) {
	args := m.Called(ctx, memberID)
	var member models.ServerMember
	if val := args.Get(0); val != nil {
		member = val.(models.ServerMember)
	}
	return member, args.Error(1)
}

func (m *ServerRepositoryMock) GetMemberByUser(ctx context.Context, serverID uuid.UUID, userID uuid.UUID) (models.ServerMember, error) {
	args := m.Called(ctx, serverID, userID)
	var member models.ServerMember
	if val := args.Get(0); val != nil {
		member = val.(models.ServerMember)
	}
	return member, args.Error(1)
}

func (m *ServerRepositoryMock) GetMembersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServerMember, error) {
	args := m.Called(ctx, ids)
	var members []models.ServerMember
	if val := args.Get(0); val != nil {
		members = val.([]models.ServerMember)
	}
	return members, args.Error(1)
}

func (m *ServerRepositoryMock) SetMemberMuted(ctx context.Context, memberID uuid.UUID, muted bool) error {
	args := m.Called(ctx, memberID, muted)
	return args.Error(0)
}

type RoleRepositoryMock struct {
	mock.Mock
}

func (m *RoleRepositoryMock) CreateRole(ctx context.Context, role models.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *RoleRepositoryMock) GetRole(ctx context.Context, roleID uuid.UUID) (models.Role, error) {
	args := m.Called(ctx, roleID)
	var role models.Role
	if val := args.Get(0); val != nil {
		role = val.(models.Role)
	}
	return role, args.Error(1)
}

func (m *RoleRepositoryMock) GetRolesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, ids)
	var roles []models.Role
	if val := args.Get(0); val != nil {
		roles = val.([]models.Role)
	}
	return roles, args.Error(1)
}

func (m *RoleRepositoryMock) ListRoles(ctx context.Context, serverID uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, serverID)
	var roles []models.Role
	if val := args.Get(0); val != nil {
		roles = val.([]models.Role)
	}
	return roles, args.Error(1)
}

func (m *RoleRepositoryMock) RenameRole(ctx context.Context, roleID uuid.UUID, name string) error {
	args := m.Called(ctx, roleID, name)
	return args.Error(0)
}

func (m *RoleRepositoryMock) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []models.Permission) error {
	args := m.Called(ctx, roleID, permissions)
	return args.Error(0)
}

func (m *RoleRepositoryMock) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *RoleRepositoryMock) AssignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error {
	args := m.Called(ctx, memberID, roleID)
	return args.Error(0)
}

func (m *RoleRepositoryMock) UnassignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error {
	args := m.Called(ctx, memberID, roleID)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreateDirect(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.DirectConversation, bool, error) {
	args := m.Called(ctx, userA, userB)
	var conv models.DirectConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.DirectConversation)
	}
	return conv, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) GetDirect(ctx context.Context, conversationID uuid.UUID) (models.DirectConversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.DirectConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.DirectConversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetOrCreateServer(ctx context.Context, serverID uuid.UUID, memberA uuid.UUID, memberB uuid.UUID) (models.ServerConversation, bool, error) {
	args := m.Called(ctx, serverID, memberA, memberB)
	var conv models.ServerConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.ServerConversation)
	}
	return conv, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) GetServerConversation(ctx context.Context, conversationID uuid.UUID) (models.ServerConversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.ServerConversation
	if val := args.Get(0); val != nil {
		conv = val.(models.ServerConversation)
	}
	return conv, args.Error(1)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) CreateRequest(ctx context.Context, req models.FriendRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *FriendRepositoryMock) GetRequest(ctx context.Context, requestID uuid.UUID) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRepositoryMock) GetByPair(ctx context.Context, userA uuid.UUID, userB uuid.UUID) (models.FriendRequest, error) {
	args := m.Called(ctx, userA, userB)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRepositoryMock) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *FriendRepositoryMock) UpdateStatus(ctx context.Context, requestID uuid.UUID, status models.FriendStatus, initiatedBy uuid.UUID) error {
	args := m.Called(ctx, requestID, status, initiatedBy)
	return args.Error(0)
}

func (m *FriendRepositoryMock) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Paginate(ctx context.Context, scope models.ScopeSelector, opts models.PageOptions) (models.Page[models.Message], error) {
	args := m.Called(ctx, scope, opts)
	var page models.Page[models.Message]
	if val := args.Get(0); val != nil {
		page = val.(models.Page[models.Message])
	}
	return page, args.Error(1)
}

func (m *MessageRepositoryMock) ListReplies(ctx context.Context, parentID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, parentID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateBody(ctx context.Context, messageID uuid.UUID, body string, at models.Timestamp) error {
	args := m.Called(ctx, messageID, body, at)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) Toggle(ctx context.Context, messageID uuid.UUID, reactorID uuid.UUID, value string) (models.ToggleResult, error) {
	args := m.Called(ctx, messageID, reactorID, value)
	var result models.ToggleResult
	if val := args.Get(0); val != nil {
		result = val.(models.ToggleResult)
	}
	return result, args.Error(1)
}

func (m *ReactionRepositoryMock) ListForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]models.Reaction, error) {
	args := m.Called(ctx, messageIDs)
	var rows map[uuid.UUID][]models.Reaction
	if val := args.Get(0); val != nil {
		rows = val.(map[uuid.UUID][]models.Reaction)
	}
	return rows, args.Error(1)
}
