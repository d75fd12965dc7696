package models

import (
	"fmt"
	"strings"
)

// Role is both the global role of a user and the role a user holds inside a
// team. The set is closed.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleManager    Role = "Manager"
	RoleWorker     Role = "Worker"
	RoleController Role = "Controller"
)

var roles = []Role{RoleAdmin, RoleManager, RoleWorker, RoleController}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the canonical role names.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

type Capability int

const (
	// CapAssignTasks lets a user assign tasks on behalf of someone else.
	CapAssignTasks Capability = iota
	// CapApproveTasks lets a user approve completed assignments.
	CapApproveTasks
	// CapManageTeam lets a team member invite and remove members.
	CapManageTeam
	// CapViewAll lets a user list every team, project, task and user.
	CapViewAll
	// CapActForOthers lets a user complete, accept or cancel on behalf of another user.
	CapActForOthers
	// CapManageRoles lets a user change global roles.
	CapManageRoles
)

var capabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapAssignTasks:  true,
		CapApproveTasks: true,
		CapManageTeam:   true,
		CapViewAll:      true,
		CapActForOthers: true,
		CapManageRoles:  true,
	},
	RoleManager: {
		CapAssignTasks: true,
		CapManageTeam:  true,
		CapViewAll:     true,
	},
	RoleController: {
		CapApproveTasks: true,
	},
	RoleWorker: {},
}

func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}
