// Package authz decides who may do what: the project role ladder, the
// system-admin override, permission predicates and last-owner protection.
package authz

import "github.com/yukikurage/taskforge-api/internal/models"

// Level ranks a project role. Anything that is not a known role, including
// the zero value used for "no membership", ranks 0.
func Level(role models.ProjectRole) int {
	switch role {
	case models.ProjectRoleOwner:
		return 4
	case models.ProjectRoleAdmin:
		return 3
	case models.ProjectRoleMember:
		return 2
	case models.ProjectRoleViewer:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether actual is at least as privileged as required.
// A level-0 role never satisfies anything.
func Satisfies(actual, required models.ProjectRole) bool {
	level := Level(actual)
	return level > 0 && level >= Level(required)
}
