package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// PermissionService resolves a member's effective permissions from the
// server owner and the member's roles. Nothing is cached; every call reads
// the current member, server and role rows.
type PermissionService struct {
	servers repositories.ServerRepository
	roles   repositories.RoleRepository
}

func NewPermissionService(servers repositories.ServerRepository, roles repositories.RoleRepository) *PermissionService {
	return &PermissionService{servers: servers, roles: roles}
}

// HasPermission reports false for an unknown member. The server owner holds
// every permission, as does any member with an ADMINISTRATOR role.
func (s *PermissionService) HasPermission(ctx context.Context, memberID uuid.UUID, permission models.Permission) (bool, error) {
	member, err := s.servers.GetMember(ctx, memberID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	server, err := s.servers.GetServer(ctx, member.ServerID)
	if err != nil {
		return false, err
	}
	if server.OwnerID == member.UserID {
		return true, nil
	}

	roles, err := s.roles.GetRolesByIDs(ctx, member.RoleIDs)
	if err != nil {
		return false, err
	}
	granted := lo.FlatMap(roles, func(role models.Role, _ int) []models.Permission { return role.Permissions })
	return lo.Contains(granted, models.PermissionAdministrator) || lo.Contains(granted, permission), nil
}

// Require returns the caller's membership in serverID when it holds permission.
func (s *PermissionService) Require(ctx context.Context, serverID, userID uuid.UUID, permission models.Permission) (models.ServerMember, error) {
	member, err := s.servers.GetMemberByUser(ctx, serverID, userID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return models.ServerMember{}, apperrors.Permission("not a member of this server")
	}
	if err != nil {
		return models.ServerMember{}, err
	}

	ok, err := s.HasPermission(ctx, member.ID, permission)
	if err != nil {
		return models.ServerMember{}, err
	}
	if !ok {
		return models.ServerMember{}, apperrors.Permission("missing permission %s", permission)
	}
	return member, nil
}

// MemberPermission answers HasPermission for callers who share a server
// with the member. An unknown member answers false.
func (s *PermissionService) MemberPermission(ctx context.Context, callerID, memberID uuid.UUID, permission models.Permission) (bool, error) {
	member, err := s.servers.GetMember(ctx, memberID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if member.UserID != callerID {
		if _, err := s.servers.GetMemberByUser(ctx, member.ServerID, callerID); err != nil {
			if errors.Is(err, repositories.ErrMemberNotFound) {
				return false, apperrors.Permission("not a member of this server")
			}
			return false, err
		}
	}
	return s.HasPermission(ctx, memberID, permission)
}
