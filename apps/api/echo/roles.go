package echoapi

import (
	"strings"

	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

const loginPath = "/auth/login"

// portal is a protected top-level path prefix and the roles allowed behind it.
type portal struct {
	prefix string
	roles  []user.Role
}

// portals is the static route policy. Every role's home prefix appears here,
// so every home is itself protected.
var portals = []portal{
	{prefix: "/super-admin", roles: []user.Role{user.RoleSuperAdmin}},
	{prefix: "/dashboard", roles: []user.Role{user.RoleSchoolAdmin}},
	{prefix: "/teacher", roles: []user.Role{user.RoleTeacher}},
	{prefix: "/student", roles: []user.Role{user.RoleStudent}},
	{prefix: "/parent", roles: []user.Role{user.RoleParent}},
}

// homePath maps a role to its landing path after login. An unknown role lands
// on the school admin home rather than crashing.
func homePath(role user.Role) string {
	switch role {
	case user.RoleSuperAdmin:
		return "/super-admin"
	case user.RoleSchoolAdmin:
		return "/dashboard"
	case user.RoleTeacher:
		return "/teacher"
	case user.RoleStudent:
		return "/student"
	case user.RoleParent:
		return "/parent"
	}
	return "/dashboard"
}

func matchPortal(path string) (portal, bool) {
	for _, p := range portals {
		if path == p.prefix || strings.HasPrefix(path, p.prefix+"/") {
			return p, true
		}
	}
	return portal{}, false
}

func roleAllowed(role user.Role, allowed []user.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
