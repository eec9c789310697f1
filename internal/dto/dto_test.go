package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/models"
)

func TestToTaskListResponse_TotalPages(t *testing.T) {
	tasks := []models.Task{{ID: uuid.New(), Title: "a"}, {ID: uuid.New(), Title: "b"}}

	resp := ToTaskListResponse(tasks, 1, 2, 5)
	assert.Len(t, resp.Tasks, 2)
	assert.Equal(t, 3, resp.TotalPages)

	resp = ToTaskListResponse(nil, 1, 0, 5)
	assert.Equal(t, 0, resp.TotalPages)
	assert.NotNil(t, resp.Tasks)
}

func TestUpdateTaskRequest_DistinguishesNullFromAbsent(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to": null, "title": "x"}`), &req))

	assert.True(t, req.AssignedTo.Set)
	assert.Nil(t, req.AssignedTo.Value)
	assert.False(t, req.DueDate.Set)
	assert.False(t, req.Description.Set)
	require.NotNil(t, req.Title)
	assert.Equal(t, "x", *req.Title)
}

func TestCreateTaskRequest_RejectsUnknownStatus(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{"title": "x", "status": "blocked"}`), &req)
	assert.ErrorIs(t, err, models.ErrInvalidTaskStatus)
}

func TestToMemberDTO_IncludesPreloadedUser(t *testing.T) {
	username := "alice"
	member := models.ProjectMember{
		UserID: uuid.New(),
		Role:   models.ProjectRoleAdmin,
	}
	assert.Empty(t, ToMemberDTO(member).Email)

	member.User = models.User{ID: member.UserID, Email: "a@example.com", Username: &username}
	dto := ToMemberDTO(member)
	assert.Equal(t, "a@example.com", dto.Email)
	assert.Equal(t, &username, dto.Username)
	assert.Equal(t, models.ProjectRoleAdmin, dto.Role)
}
