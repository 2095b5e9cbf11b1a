package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

type roleInput struct {
	Name        string              `validate:"required,min=1,max=64"`
	Permissions []models.Permission `validate:"max=13"`
}

// RoleService manages roles, their assignment and member mutes. Every
// operation here requires MANAGE_ROLES except muting, which requires MUTE_MEMBERS.
type RoleService struct {
	roles       repositories.RoleRepository
	servers     repositories.ServerRepository
	permissions *PermissionService
	now         func() time.Time
}

func NewRoleService(roles repositories.RoleRepository, servers repositories.ServerRepository, permissions *PermissionService) *RoleService {
	return &RoleService{roles: roles, servers: servers, permissions: permissions, now: time.Now}
}

func (s *RoleService) ListRoles(ctx context.Context, serverID, callerID uuid.UUID) ([]models.Role, error) {
	if _, err := (scopeResolver{servers: s.servers}).member(ctx, serverID, callerID); err != nil {
		return nil, err
	}
	return s.roles.ListRoles(ctx, serverID)
}

func (s *RoleService) CreateRole(ctx context.Context, serverID, callerID uuid.UUID, name string, permissions []models.Permission) (models.Role, error) {
	if err := s.validate(name, permissions); err != nil {
		return models.Role{}, err
	}
	if _, err := s.permissions.Require(ctx, serverID, callerID, models.PermissionManageRoles); err != nil {
		return models.Role{}, err
	}
	if err := s.ensureNameFree(ctx, serverID, uuid.Nil, name); err != nil {
		return models.Role{}, err
	}

	role := models.Role{ID: uuid.New(), ServerID: serverID, Name: name, Permissions: lo.Uniq(permissions), CreatedAt: models.NewTimestamp(s.now())}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// UpdateRole renames the role when name is set and replaces its permission set when permissions is non-nil.
func (s *RoleService) UpdateRole(ctx context.Context, serverID, roleID, callerID uuid.UUID, name *string, permissions []models.Permission) (models.Role, error) {
	role, err := s.managedRole(ctx, serverID, roleID, callerID)
	if err != nil {
		return models.Role{}, err
	}
	if name != nil {
		if err := s.validate(*name, nil); err != nil {
			return models.Role{}, err
		}
		if role.Name == models.EveryoneRoleName && *name != role.Name {
			return models.Role{}, apperrors.Validation("the %s role cannot be renamed", models.EveryoneRoleName)
		}
		if err := s.ensureNameFree(ctx, serverID, role.ID, *name); err != nil {
			return models.Role{}, err
		}
		if err := s.roles.RenameRole(ctx, role.ID, *name); err != nil {
			return models.Role{}, err
		}
		role.Name = *name
	}
	if permissions != nil {
		if err := s.validate(role.Name, permissions); err != nil {
			return models.Role{}, err
		}
		if err := s.roles.SetRolePermissions(ctx, role.ID, permissions); err != nil {
			return models.Role{}, err
		}
		role.Permissions = lo.Filter(models.AllPermissions(), func(p models.Permission, _ int) bool { return lo.Contains(permissions, p) })
	}
	return role, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, serverID, roleID, callerID uuid.UUID) error {
	if _, err := s.managedRole(ctx, serverID, roleID, callerID); err != nil {
		return err
	}
	return s.roles.DeleteRole(ctx, roleID)
}

func (s *RoleService) AssignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error {
	if _, err := s.managedRole(ctx, serverID, roleID, callerID); err != nil {
		return err
	}
	if _, err := s.serverMember(ctx, serverID, memberID); err != nil {
		return err
	}
	return s.roles.AssignRole(ctx, memberID, roleID)
}

func (s *RoleService) UnassignRole(ctx context.Context, serverID, roleID, memberID, callerID uuid.UUID) error {
	if _, err := s.managedRole(ctx, serverID, roleID, callerID); err != nil {
		return err
	}
	if _, err := s.serverMember(ctx, serverID, memberID); err != nil {
		return err
	}
	return s.roles.UnassignRole(ctx, memberID, roleID)
}

// SetMuted mutes or unmutes a member. The owner cannot be muted.
func (s *RoleService) SetMuted(ctx context.Context, memberID, callerID uuid.UUID, muted bool) error {
	member, err := s.servers.GetMember(ctx, memberID)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return apperrors.NotFound("member not found")
	}
	if err != nil {
		return err
	}
	if _, err := s.permissions.Require(ctx, member.ServerID, callerID, models.PermissionMuteMembers); err != nil {
		return err
	}
	server, err := s.servers.GetServer(ctx, member.ServerID)
	if err != nil {
		return err
	}
	if server.OwnerID == member.UserID {
		return apperrors.Permission("the server owner cannot be muted")
	}
	return s.servers.SetMemberMuted(ctx, member.ID, muted)
}

func (s *RoleService) validate(name string, permissions []models.Permission) error {
	if err := validateStruct(roleInput{Name: name, Permissions: permissions}); err != nil {
		return err
	}
	for _, p := range permissions {
		if !p.Valid() {
			return apperrors.Validation("unknown permission %d", uint8(p))
		}
	}
	return nil
}

func (s *RoleService) managedRole(ctx context.Context, serverID, roleID, callerID uuid.UUID) (models.Role, error) {
	if _, err := s.permissions.Require(ctx, serverID, callerID, models.PermissionManageRoles); err != nil {
		return models.Role{}, err
	}
	role, err := s.roles.GetRole(ctx, roleID)
	if errors.Is(err, repositories.ErrRoleNotFound) || (err == nil && role.ServerID != serverID) {
		return models.Role{}, apperrors.NotFound("role not found")
	}
	return role, err
}

func (s *RoleService) serverMember(ctx context.Context, serverID, memberID uuid.UUID) (models.ServerMember, error) {
	member, err := s.servers.GetMember(ctx, memberID)
	if errors.Is(err, repositories.ErrMemberNotFound) || (err == nil && member.ServerID != serverID) {
		return models.ServerMember{}, apperrors.NotFound("member not found")
	}
	return member, err
}

func (s *RoleService) ensureNameFree(ctx context.Context, serverID, roleID uuid.UUID, name string) error {
	roles, err := s.roles.ListRoles(ctx, serverID)
	if err != nil {
		return err
	}
	if lo.ContainsBy(roles, func(r models.Role) bool { return r.Name == name && r.ID != roleID }) {
		return apperrors.Conflict("a role named %q already exists", name)
	}
	return nil
}
