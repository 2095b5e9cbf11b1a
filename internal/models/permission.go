package models

import "fmt"

// Permission is a flag from the closed set a role may carry.
type Permission uint8

const (
	PermissionAdministrator Permission = iota + 1
	PermissionManageServer
	PermissionManageRoles
	PermissionManageChannels
	PermissionManageMessages
	PermissionKickMembers
	PermissionMuteMembers
	PermissionCreateInvite
	PermissionSendMessages
	PermissionAddReactions
	PermissionAttachFiles
	PermissionConnect
	PermissionSpeak
)

var permissionNames = map[Permission]string{
	PermissionAdministrator:  "ADMINISTRATOR",
	PermissionManageServer:   "MANAGE_SERVER",
	PermissionManageRoles:    "MANAGE_ROLES",
	PermissionManageChannels: "MANAGE_CHANNELS",
	PermissionManageMessages: "MANAGE_MESSAGES",
	PermissionKickMembers:    "KICK_MEMBERS",
	PermissionMuteMembers:    "MUTE_MEMBERS",
	PermissionCreateInvite:   "CREATE_INVITE",
	PermissionSendMessages:   "SEND_MESSAGES",
	PermissionAddReactions:   "ADD_REACTIONS",
	PermissionAttachFiles:    "ATTACH_FILES",
	PermissionConnect:        "CONNECT",
	PermissionSpeak:          "SPEAK",
}

var permissionsByName = func() map[string]Permission {
	m := make(map[string]Permission, len(permissionNames))
	for p, name := range permissionNames {
		m[name] = p
	}
	return m
}()

// AllPermissions lists the enumeration in declaration order.
func AllPermissions() []Permission {
	all := make([]Permission, 0, len(permissionNames))
	for p := PermissionAdministrator; p <= PermissionSpeak; p++ {
		all = append(all, p)
	}
	return all
}

func (p Permission) Valid() bool {
	_, ok := permissionNames[p]
	return ok
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Permission(%d)", uint8(p))
}

func ParsePermission(name string) (Permission, error) {
	p, ok := permissionsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown permission %q", name)
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown permission %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
