package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/dto"
	apierrors "github.com/yukikurage/taskforge-api/internal/errors"
	"github.com/yukikurage/taskforge-api/internal/middleware"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/services"
	"github.com/yukikurage/taskforge-api/internal/utils"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns the project's tasks.
// Optional filters: status, priority, assigned_to; sort=due_date orders by due date.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{
		SortByDueDate: c.Query("sort") == "due_date",
		Page:          utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		parsed, err := models.ParseTaskStatus(status)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &parsed
	}

	if priority := c.Query("priority"); priority != "" {
		parsed, err := models.ParseTaskPriority(priority)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
		input.Priority = &parsed
	}

	if assignee := c.Query("assigned_to"); assignee != "" {
		parsed, err := uuid.Parse(assignee)
		if err != nil {
			apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Invalid assigned_to filter")
			return
		}
		input.AssigneeID = &parsed
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), project.ID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Page.Page, input.Page.Limit, total))
}

// GetTask returns the task loaded by middleware.RequireTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task in the project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), project.ID, user, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Members and above may edit any
// task; the assignee may edit their own task at any role.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	_, role, ok := projectFromContext(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), user, role, task, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask soft-deletes the task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func taskFromContext(c *gin.Context) (*models.Task, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, false
	}
	return task, true
}
