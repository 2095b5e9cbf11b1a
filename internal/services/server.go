package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/identity"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// everyonePermissions is what a new server grants through its @everyone role.
var everyonePermissions = []models.Permission{
	models.PermissionCreateInvite,
	models.PermissionSendMessages,
	models.PermissionAddReactions,
	models.PermissionAttachFiles,
	models.PermissionConnect,
	models.PermissionSpeak,
}

type nameInput struct {
	Name string `validate:"required,min=1,max=100"`
}

// ServerService administers servers, channels and membership.
type ServerService struct {
	servers     repositories.ServerRepository
	roles       repositories.RoleRepository
	permissions *PermissionService
	notifier
	now func() time.Time
}

func NewServerService(servers repositories.ServerRepository, roles repositories.RoleRepository, permissions *PermissionService, publisher EventPublisher, log *zap.Logger) *ServerService {
	return &ServerService{
		servers:     servers,
		roles:       roles,
		permissions: permissions,
		notifier:    notifier{publisher: publisher, log: nopLogger(log).Named("servers")},
		now:         time.Now,
	}
}

// CreateServer makes the caller owner and first member, and seeds the
// @everyone role assigned to every member who joins.
func (s *ServerService) CreateServer(ctx context.Context, callerID uuid.UUID, name string, imageRef *string) (models.Server, error) {
	if err := validateStruct(nameInput{Name: name}); err != nil {
		return models.Server{}, err
	}
	now := models.NewTimestamp(s.now())
	server := models.Server{ID: uuid.New(), Name: name, OwnerID: callerID, ImageRef: imageRef, CreatedAt: now}
	owner := models.ServerMember{ID: uuid.New(), ServerID: server.ID, UserID: callerID, CreatedAt: now}
	if err := s.servers.CreateServer(ctx, server, owner); err != nil {
		return models.Server{}, err
	}

	everyone := models.Role{ID: uuid.New(), ServerID: server.ID, Name: models.EveryoneRoleName, Permissions: everyonePermissions, CreatedAt: now}
	if err := s.roles.CreateRole(ctx, everyone); err != nil {
		return models.Server{}, err
	}
	if err := s.roles.AssignRole(ctx, owner.ID, everyone.ID); err != nil {
		return models.Server{}, err
	}
	return server, nil
}

func (s *ServerService) GetServer(ctx context.Context, serverID, callerID uuid.UUID) (models.Server, error) {
	if _, err := (scopeResolver{servers: s.servers}).member(ctx, serverID, callerID); err != nil {
		return models.Server{}, err
	}
	server, err := s.servers.GetServer(ctx, serverID)
	if errors.Is(err, repositories.ErrServerNotFound) {
		return models.Server{}, apperrors.NotFound("server not found")
	}
	return server, err
}

func (s *ServerService) RenameServer(ctx context.Context, serverID, callerID uuid.UUID, name string) error {
	if err := validateStruct(nameInput{Name: name}); err != nil {
		return err
	}
	if _, err := s.permissions.Require(ctx, serverID, callerID, models.PermissionManageServer); err != nil {
		return err
	}
	return s.servers.RenameServer(ctx, serverID, name)
}

func (s *ServerService) CreateChannel(ctx context.Context, serverID, callerID uuid.UUID, name string) (models.Channel, error) {
	if err := validateStruct(nameInput{Name: name}); err != nil {
		return models.Channel{}, err
	}
	if _, err := s.permissions.Require(ctx, serverID, callerID, models.PermissionManageChannels); err != nil {
		return models.Channel{}, err
	}
	channel := models.Channel{ID: uuid.New(), ServerID: serverID, Name: name, CreatedAt: models.NewTimestamp(s.now())}
	if err := s.servers.CreateChannel(ctx, channel); err != nil {
		return models.Channel{}, err
	}
	s.notify(ctx, "channel.created", identity.ChannelRoomKey(channel.ID), channel)
	return channel, nil
}

// Join adds the caller to the server and hands out the @everyone role when the server has one.
func (s *ServerService) Join(ctx context.Context, serverID, callerID uuid.UUID) (models.ServerMember, error) {
	if _, err := s.servers.GetServer(ctx, serverID); err != nil {
		if errors.Is(err, repositories.ErrServerNotFound) {
			return models.ServerMember{}, apperrors.NotFound("server not found")
		}
		return models.ServerMember{}, err
	}

	member := models.ServerMember{ID: uuid.New(), ServerID: serverID, UserID: callerID, CreatedAt: models.NewTimestamp(s.now())}
	if err := s.servers.AddMember(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrAlreadyMember) {
			return models.ServerMember{}, apperrors.Conflict("already a member of this server")
		}
		return models.ServerMember{}, err
	}

	roles, err := s.roles.ListRoles(ctx, serverID)
	if err != nil {
		return models.ServerMember{}, err
	}
	for _, role := range roles {
		if role.Name != models.EveryoneRoleName {
			continue
		}
		if err := s.roles.AssignRole(ctx, member.ID, role.ID); err != nil {
			return models.ServerMember{}, err
		}
		member.RoleIDs = append(member.RoleIDs, role.ID)
	}
	return member, nil
}

// Leave removes the caller's membership. The owner cannot leave their own server.
func (s *ServerService) Leave(ctx context.Context, serverID, callerID uuid.UUID) error {
	server, err := s.servers.GetServer(ctx, serverID)
	if errors.Is(err, repositories.ErrServerNotFound) {
		return apperrors.NotFound("server not found")
	}
	if err != nil {
		return err
	}
	if server.OwnerID == callerID {
		return apperrors.Validation("the owner cannot leave the server")
	}
	member, err := (scopeResolver{servers: s.servers}).member(ctx, serverID, callerID)
	if err != nil {
		return err
	}
	return s.servers.RemoveMember(ctx, member.ID)
}
