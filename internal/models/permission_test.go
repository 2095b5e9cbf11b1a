package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionNamesRoundTrip(t *testing.T) {
	for _, p := range AllPermissions() {
		parsed, err := ParsePermission(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	assert.Len(t, AllPermissions(), 13)
}

func TestPermissionJSONUsesNames(t *testing.T) {
	role := Role{Name: "mods", Permissions: []Permission{PermissionManageMessages, PermissionMuteMembers}}
	raw, err := json.Marshal(role)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"permissions":["MANAGE_MESSAGES","MUTE_MEMBERS"]`)

	var decoded Role
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, role.Permissions, decoded.Permissions)
}

func TestUnknownPermissionIsRejected(t *testing.T) {
	var p Permission
	assert.Error(t, p.UnmarshalText([]byte("FLY")))
	assert.False(t, Permission(0).Valid())
}
