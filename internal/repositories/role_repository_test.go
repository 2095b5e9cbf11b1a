package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-core/internal/models"
)

func TestRolePermissionsAndAssignment(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	servers := NewServerRepo(database)
	roles := NewRoleRepo(database)
	server, owner := seedServer(t, servers)

	role := models.Role{
		ID:          uuid.New(),
		ServerID:    server.ID,
		Name:        "moderator",
		Permissions: []models.Permission{models.PermissionManageMessages, models.PermissionMuteMembers},
		CreatedAt:   models.NewTimestamp(baseTime),
	}
	require.NoError(t, roles.CreateRole(ctx, role))

	got, err := roles.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, role.Permissions, got.Permissions)

	require.NoError(t, roles.SetRolePermissions(ctx, role.ID, []models.Permission{models.PermissionKickMembers}))
	got, err = roles.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{models.PermissionKickMembers}, got.Permissions)

	require.NoError(t, roles.AssignRole(ctx, owner.ID, role.ID))
	require.NoError(t, roles.AssignRole(ctx, owner.ID, role.ID))
	member, err := servers.GetMember(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{role.ID}, member.RoleIDs)

	require.NoError(t, roles.UnassignRole(ctx, owner.ID, role.ID))
	member, err = servers.GetMember(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, member.RoleIDs)
}

func TestDeleteRoleClearsAssignments(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	servers := NewServerRepo(database)
	roles := NewRoleRepo(database)
	server, owner := seedServer(t, servers)

	keep := models.Role{ID: uuid.New(), ServerID: server.ID, Name: "keep", CreatedAt: models.NewTimestamp(baseTime)}
	drop := models.Role{ID: uuid.New(), ServerID: server.ID, Name: "drop", Permissions: []models.Permission{models.PermissionAdministrator}, CreatedAt: models.NewTimestamp(baseTime)}
	require.NoError(t, roles.CreateRole(ctx, keep))
	require.NoError(t, roles.CreateRole(ctx, drop))
	require.NoError(t, roles.AssignRole(ctx, owner.ID, drop.ID))

	require.NoError(t, roles.DeleteRole(ctx, drop.ID))
	_, err := roles.GetRole(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.ErrorIs(t, roles.DeleteRole(ctx, drop.ID), ErrRoleNotFound)

	member, err := servers.GetMember(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, member.RoleIDs)

	listed, err := roles.ListRoles(ctx, server.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "keep", listed[0].Name)

	byIDs, err := roles.GetRolesByIDs(ctx, []uuid.UUID{keep.ID, drop.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Empty(t, byIDs[0].Permissions)
}
