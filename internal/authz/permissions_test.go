package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/taskforge-api/internal/models"
)

func TestPermissionTable(t *testing.T) {
	type row struct {
		manageProject, manageMembers, createTasks, editTask, deleteTask, view bool
	}

	table := map[models.ProjectRole]row{
		models.ProjectRoleOwner:  {true, true, true, true, true, true},
		models.ProjectRoleAdmin:  {true, true, true, true, true, true},
		models.ProjectRoleMember: {false, false, true, true, false, true},
		models.ProjectRoleViewer: {false, false, false, false, false, true},
		"":                       {false, false, false, false, false, false},
	}

	for role, want := range table {
		assert.Equal(t, want.manageProject, CanManageProject(role), "manage project as %q", role)
		assert.Equal(t, want.manageMembers, CanManageMembers(role), "manage members as %q", role)
		assert.Equal(t, want.createTasks, CanCreateTasks(role), "create tasks as %q", role)
		assert.Equal(t, want.editTask, CanEditTask(role, false), "edit task as %q", role)
		assert.Equal(t, want.deleteTask, CanDeleteTask(role), "delete task as %q", role)
		assert.Equal(t, want.view, CanViewProject(role), "view as %q", role)
	}
}

func TestCanEditTask_Assignee(t *testing.T) {
	for _, role := range append(models.ProjectRoles, "") {
		assert.True(t, CanEditTask(role, true), "assignee as %q", role)
	}
	assert.False(t, CanEditTask(models.ProjectRoleViewer, false))
	assert.False(t, CanEditTask("", false))
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(&models.User{SystemRole: models.SystemRoleAdmin}))
	assert.False(t, CanManageUsers(&models.User{SystemRole: models.SystemRoleUser}))
	assert.False(t, CanManageUsers(nil))
}
