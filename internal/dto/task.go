package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

// CreateTaskRequest is the body of POST /projects/:project_id/tasks
type CreateTaskRequest struct {
	Title       string               `json:"title" binding:"required,max=255"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	AssignedTo  *uuid.UUID           `json:"assigned_to"`
	DueDate     *time.Time           `json:"due_date"`
}

// UpdateTaskRequest is the body of PATCH /projects/:project_id/tasks/:task_id.
// Description, assignee and due date may be cleared with null.
type UpdateTaskRequest struct {
	Title       *string                   `json:"title" binding:"omitempty,max=255"`
	Description utils.Nullable[string]    `json:"description"`
	Status      *models.TaskStatus        `json:"status"`
	Priority    *models.TaskPriority      `json:"priority"`
	AssignedTo  utils.Nullable[uuid.UUID] `json:"assigned_to"`
	DueDate     utils.Nullable[time.Time] `json:"due_date"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *uuid.UUID          `json:"assigned_to"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	DueDate     *time.Time          `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		AssignedTo:  task.AssigneeID,
		CreatedBy:   task.CreatorID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
