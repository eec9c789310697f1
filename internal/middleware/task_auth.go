package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/constants"
	apierrors "github.com/yukikurage/taskforge-api/internal/errors"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
)

// TaskFinder loads a live task inside a project. It returns
// services.ErrTaskNotFound when there is none.
type TaskFinder interface {
	GetTask(ctx context.Context, projectID, taskID uuid.UUID) (*models.Task, error)
}

// RequireTask loads the task named by :task_id from the current project.
// Must run after RequireProjectRole.
func RequireTask(tasks TaskFinder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := uuid.Parse(c.Param("task_id"))
		if err != nil {
			apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Invalid task ID")
			c.Abort()
			return
		}

		project, ok := GetProject(c)
		if !ok {
			log.Error("RequireTask used without RequireProjectRole")
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		task, err := tasks.GetTask(c.Request.Context(), project.ID, taskID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				log.Error("failed to load task", zap.String("task_id", taskID.String()), zap.Error(err))
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTask
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok && task != nil
}
