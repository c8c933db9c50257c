// Package policy maps roles to display labels and capability sets.
//
// Everything here is pure. No endpoint denies access by role: the shipped
// Authorizer only requires an active identity, and role-based enforcement is
// an extension point that plugs in behind the Authorizer interface.
package policy

import (
	"github.com/opsdesk/platform/internal/core/domain"
)

// Capability names an action a role may conceptually perform.
type Capability string

const (
	CapOrdersRead    Capability = "orders:read"
	CapOrdersWrite   Capability = "orders:write"
	CapProjectsRead  Capability = "projects:read"
	CapProjectsWrite Capability = "projects:write"
	CapTasksRead     Capability = "tasks:read"
	CapTasksWrite    Capability = "tasks:write"
	CapTasksAssign   Capability = "tasks:assign"
	CapUsersManage   Capability = "users:manage"
)

const unknownRole = "Unknown role"

var roleNames = map[domain.Role]string{
	domain.RoleEngineer: "Engineer",
	domain.RoleManager:  "Manager",
	domain.RoleHead:     "Head",
}

var roleCapabilities = map[domain.Role][]Capability{
	domain.RoleEngineer: {
		CapOrdersRead, CapOrdersWrite,
		CapProjectsRead,
		CapTasksRead, CapTasksWrite,
	},
	domain.RoleManager: {
		CapOrdersRead, CapOrdersWrite,
		CapProjectsRead, CapProjectsWrite,
		CapTasksRead, CapTasksWrite, CapTasksAssign,
	},
	domain.RoleHead: {
		CapOrdersRead, CapOrdersWrite,
		CapProjectsRead, CapProjectsWrite,
		CapTasksRead, CapTasksWrite, CapTasksAssign,
		CapUsersManage,
	},
}

// RoleName returns the human-readable label for r.
func RoleName(r domain.Role) string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return unknownRole
}

// Capabilities returns a copy of the capability set for r. Unknown roles have none.
func Capabilities(r domain.Role) []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Allows reports whether r conceptually holds capability c.
func Allows(r domain.Role, c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// Authorizer decides whether user may perform an action requiring c.
type Authorizer interface {
	Authorize(user *domain.User, c Capability) error
}

// ActiveOnly permits every active identity regardless of role.
type ActiveOnly struct{}

func (ActiveOnly) Authorize(user *domain.User, _ Capability) error {
	if user == nil || !user.IsActive {
		return domain.ErrForbidden
	}
	return nil
}
