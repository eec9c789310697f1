package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/testutil"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

type taskFixture struct {
	*fixture
	project *models.Project
	owner   *models.User
	member  *models.User
	viewer  *models.User
	outside *models.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner@example.com", nil)
	member := testutil.CreateUser(t, f.db, "member@example.com", nil)
	viewer := testutil.CreateUser(t, f.db, "viewer@example.com", nil)
	outside := testutil.CreateUser(t, f.db, "outside@example.com", nil)

	project := testutil.CreateProject(t, f.db, "Tasks", owner, map[*models.User]models.ProjectRole{
		owner:  models.ProjectRoleOwner,
		member: models.ProjectRoleMember,
		viewer: models.ProjectRoleViewer,
	})

	return &taskFixture{fixture: f, project: project, owner: owner, member: member, viewer: viewer, outside: outside}
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.taskService.CreateTask(f.ctx, f.project.ID, f.member, CreateTaskInput{Title: " Write tests "})
	require.NoError(t, err)
	assert.Equal(t, "Write tests", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, f.member.ID, task.CreatorID)
	assert.Nil(t, task.AssigneeID)

	_, err = f.taskService.CreateTask(f.ctx, f.project.ID, f.member, CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateTask_AssigneeMustBeMember(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.taskService.CreateTask(f.ctx, f.project.ID, f.owner, CreateTaskInput{Title: "x", AssigneeID: &f.outside.ID})
	assert.ErrorIs(t, err, ErrAssigneeNotMember)

	urgent := models.TaskPriorityUrgent
	task, err := f.taskService.CreateTask(f.ctx, f.project.ID, f.owner, CreateTaskInput{
		Title:      "y",
		AssigneeID: &f.viewer.ID,
		Priority:   &urgent,
	})
	require.NoError(t, err)
	assert.True(t, task.IsAssignedTo(f.viewer.ID))
	assert.Equal(t, models.TaskPriorityUrgent, task.Priority)
}

func TestUpdateTask_Permissions(t *testing.T) {
	f := newTaskFixture(t)
	assigned := testutil.CreateTask(t, f.db, f.project, f.owner, "assigned", func(task *models.Task) {
		task.AssigneeID = &f.viewer.ID
	})
	unassigned := testutil.CreateTask(t, f.db, f.project, f.owner, "unassigned", nil)

	done := models.TaskStatusDone

	updated, err := f.taskService.UpdateTask(f.ctx, f.viewer, models.ProjectRoleViewer, assigned, UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, updated.Status)

	_, err = f.taskService.UpdateTask(f.ctx, f.viewer, models.ProjectRoleViewer, unassigned, UpdateTaskInput{Status: &done})
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)

	_, err = f.taskService.UpdateTask(f.ctx, f.member, models.ProjectRoleMember, unassigned, UpdateTaskInput{Status: &done})
	require.NoError(t, err)
}

func TestUpdateTask_PartialAndClearing(t *testing.T) {
	f := newTaskFixture(t)
	due := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	task := testutil.CreateTask(t, f.db, f.project, f.owner, "clear me", func(task *models.Task) {
		task.Description = strPtr("details")
		task.AssigneeID = &f.member.ID
		task.DueDate = &due
	})

	_, err := f.taskService.UpdateTask(f.ctx, f.owner, models.ProjectRoleOwner, task, UpdateTaskInput{
		AssigneeID: utils.NullableOf(f.outside.ID),
	})
	assert.ErrorIs(t, err, ErrAssigneeNotMember)

	_, err = f.taskService.UpdateTask(f.ctx, f.owner, models.ProjectRoleOwner, task, UpdateTaskInput{Title: strPtr(" ")})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.taskService.UpdateTask(f.ctx, f.owner, models.ProjectRoleOwner, task, UpdateTaskInput{
		Description: utils.Null[string](),
		AssigneeID:  utils.Null[uuid.UUID](),
		DueDate:     utils.Null[time.Time](),
	})
	require.NoError(t, err)

	reloaded, err := f.taskService.GetTask(f.ctx, f.project.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "clear me", reloaded.Title)
	assert.Nil(t, reloaded.Description)
	assert.Nil(t, reloaded.AssigneeID)
	assert.Nil(t, reloaded.DueDate)
}

func TestListAndDeleteTasks(t *testing.T) {
	f := newTaskFixture(t)
	testutil.CreateTask(t, f.db, f.project, f.owner, "one", nil)
	second := testutil.CreateTask(t, f.db, f.project, f.owner, "two", func(task *models.Task) {
		task.Status = models.TaskStatusInProgress
	})

	tasks, total, err := f.taskService.ListTasks(f.ctx, f.project.ID, ListTasksInput{Page: utils.NewPaginationParams(1, 20)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, tasks, 2)

	inProgress := models.TaskStatusInProgress
	tasks, _, err = f.taskService.ListTasks(f.ctx, f.project.ID, ListTasksInput{Status: &inProgress, Page: utils.NewPaginationParams(1, 20)})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, second.ID, tasks[0].ID)

	require.NoError(t, f.taskService.DeleteTask(f.ctx, second))
	_, err = f.taskService.GetTask(f.ctx, f.project.ID, second.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = f.taskService.GetTask(f.ctx, uuid.New(), tasks[0].ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
