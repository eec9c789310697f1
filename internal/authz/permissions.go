package authz

import "github.com/yukikurage/taskforge-api/internal/models"

func CanManageUsers(user *models.User) bool {
	return user != nil && user.IsSystemAdmin()
}

func CanViewProject(role models.ProjectRole) bool {
	return Satisfies(role, models.ProjectRoleViewer)
}

func CanManageProject(role models.ProjectRole) bool {
	return Satisfies(role, models.ProjectRoleAdmin)
}

func CanManageMembers(role models.ProjectRole) bool {
	return Satisfies(role, models.ProjectRoleAdmin)
}

func CanCreateTasks(role models.ProjectRole) bool {
	return Satisfies(role, models.ProjectRoleMember)
}

// CanEditTask allows members and above, and the task's assignee at any role.
// Project access itself is checked by the guard before this runs.
func CanEditTask(role models.ProjectRole, isAssignee bool) bool {
	return Satisfies(role, models.ProjectRoleMember) || isAssignee
}

func CanDeleteTask(role models.ProjectRole) bool {
	return Satisfies(role, models.ProjectRoleAdmin)
}
