package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"github.com/yukikurage/taskforge-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	log         *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		log:         log.Named("tasks"),
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// CreateTask creates a task in projectID. Status defaults to todo and
// priority to medium.
func (s *TaskService) CreateTask(ctx context.Context, projectID uuid.UUID, creator *models.User, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.AssigneeID != nil {
		if err := s.ensureAssignable(ctx, projectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
		AssigneeID:  input.AssigneeID,
		CreatorID:   creator.ID,
		DueDate:     input.DueDate,
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("task created",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", projectID.String()),
	)
	return task, nil
}

// ListTasksInput represents filters for listing tasks in a project
type ListTasksInput struct {
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uuid.UUID
	SortByDueDate bool
	Page          utils.PaginationParams
}

// ListTasks returns a filtered page of the project's live tasks.
func (s *TaskService) ListTasks(ctx context.Context, projectID uuid.UUID, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectID:     projectID,
		Status:        input.Status,
		Priority:      input.Priority,
		AssigneeID:    input.AssigneeID,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a live task that belongs to projectID.
func (s *TaskService) GetTask(ctx context.Context, projectID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds a partial task update. Nullable fields may be
// cleared with an explicit null.
type UpdateTaskInput struct {
	Title       *string
	Description utils.Nullable[string]
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssigneeID  utils.Nullable[uuid.UUID]
	DueDate     utils.Nullable[time.Time]
}

// UpdateTask applies input to task on behalf of actor, whose effective
// project role is role.
func (s *TaskService) UpdateTask(ctx context.Context, actor *models.User, role models.ProjectRole, task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if !authz.CanEditTask(role, task.IsAssignedTo(actor.ID)) {
		return nil, fmt.Errorf("%w: requires %s role or higher", authz.ErrInsufficientRole, models.ProjectRoleMember)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description.Set {
		task.Description = input.Description.Value
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssigneeID.Set {
		if input.AssigneeID.Value != nil {
			if err := s.ensureAssignable(ctx, task.ProjectID, *input.AssigneeID.Value); err != nil {
				return nil, err
			}
		}
		task.AssigneeID = input.AssigneeID.Value
	}
	if input.DueDate.Set {
		task.DueDate = input.DueDate.Value
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask soft deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, task *models.Task) error {
	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.Info("task deleted",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", task.ProjectID.String()),
	)
	return nil
}

func (s *TaskService) ensureAssignable(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := s.projectRepo.FindMembership(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	return nil
}
