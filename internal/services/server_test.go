package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
)

func TestServerLifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	owner, guest := w.user(t, "owner"), w.user(t, "guest")
	server, _ := w.guild(t, owner)

	member, err := w.serverSvc.Join(ctx, server.ID, guest.ID)
	require.NoError(t, err)
	require.Len(t, member.RoleIDs, 1)
	everyone, err := w.roles.GetRole(ctx, member.RoleIDs[0])
	require.NoError(t, err)
	assert.Equal(t, models.EveryoneRoleName, everyone.Name)

	_, err = w.serverSvc.Join(ctx, server.ID, guest.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = w.serverSvc.Join(ctx, uuid.New(), guest.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, w.serverSvc.RenameServer(ctx, server.ID, guest.ID, "mine"), apperrors.ErrPermission)
	_, err = w.serverSvc.CreateChannel(ctx, server.ID, guest.ID, "spam")
	assert.ErrorIs(t, err, apperrors.ErrPermission)
	require.NoError(t, w.serverSvc.RenameServer(ctx, server.ID, owner.ID, "renamed"))
	assert.ErrorIs(t, w.serverSvc.RenameServer(ctx, server.ID, owner.ID, ""), apperrors.ErrValidation)

	got, err := w.serverSvc.GetServer(ctx, server.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	assert.ErrorIs(t, w.serverSvc.Leave(ctx, server.ID, owner.ID), apperrors.ErrValidation)
	require.NoError(t, w.serverSvc.Leave(ctx, server.ID, guest.ID))
	_, err = w.serverSvc.GetServer(ctx, server.ID, guest.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermission)
}

func TestRolesGrantPermissions(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	owner, mod := w.user(t, "owner"), w.user(t, "mod")
	server, _ := w.guild(t, owner)
	member, err := w.serverSvc.Join(ctx, server.ID, mod.ID)
	require.NoError(t, err)

	_, err = w.roleSvc.CreateRole(ctx, server.ID, mod.ID, "self-made", nil)
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	role, err := w.roleSvc.CreateRole(ctx, server.ID, owner.ID, "moderator", []models.Permission{models.PermissionManageChannels, models.PermissionMuteMembers})
	require.NoError(t, err)
	_, err = w.roleSvc.CreateRole(ctx, server.ID, owner.ID, "moderator", nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = w.roleSvc.CreateRole(ctx, server.ID, owner.ID, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	ok, err := w.permissions.HasPermission(ctx, member.ID, models.PermissionManageChannels)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, w.roleSvc.AssignRole(ctx, server.ID, role.ID, member.ID, owner.ID))
	ok, err = w.permissions.HasPermission(ctx, member.ID, models.PermissionManageChannels)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = w.serverSvc.CreateChannel(ctx, server.ID, mod.ID, "mods")
	require.NoError(t, err)

	ok, err = w.permissions.MemberPermission(ctx, owner.ID, member.ID, models.PermissionKickMembers)
	require.NoError(t, err)
	assert.False(t, ok)

	updated, err := w.roleSvc.UpdateRole(ctx, server.ID, role.ID, owner.ID, nil, []models.Permission{models.PermissionAdministrator})
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{models.PermissionAdministrator}, updated.Permissions)
	ok, err = w.permissions.HasPermission(ctx, member.ID, models.PermissionKickMembers)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, w.roleSvc.SetMuted(ctx, memberOf(t, w, server.ID, owner.ID).ID, mod.ID, true), apperrors.ErrPermission)

	require.NoError(t, w.roleSvc.UnassignRole(ctx, server.ID, role.ID, member.ID, owner.ID))
	ok, err = w.permissions.HasPermission(ctx, member.ID, models.PermissionKickMembers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, w.roleSvc.DeleteRole(ctx, server.ID, role.ID, owner.ID))
	roles, err := w.roleSvc.ListRoles(ctx, server.ID, mod.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, models.EveryoneRoleName, roles[0].Name)

	newName := "renamed"
	_, err = w.roleSvc.UpdateRole(ctx, server.ID, roles[0].ID, owner.ID, &newName, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMemberPermissionRequiresSharedServer(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	owner, outsider := w.user(t, "owner"), w.user(t, "outsider")
	server, _ := w.guild(t, owner)
	ownerMember := memberOf(t, w, server.ID, owner.ID)

	_, err := w.permissions.MemberPermission(ctx, outsider.ID, ownerMember.ID, models.PermissionSpeak)
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	ok, err := w.permissions.MemberPermission(ctx, outsider.ID, uuid.New(), models.PermissionSpeak)
	require.NoError(t, err)
	assert.False(t, ok)
}

func memberOf(t *testing.T, w *world, serverID, userID uuid.UUID) models.ServerMember {
	t.Helper()
	member, err := w.servers.GetMemberByUser(context.Background(), serverID, userID)
	require.NoError(t, err)
	return member
}
