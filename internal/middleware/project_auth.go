package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/constants"
	apierrors "github.com/yukikurage/taskforge-api/internal/errors"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
)

// ProjectFinder loads a live project. It returns services.ErrProjectNotFound
// when there is none.
type ProjectFinder interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// RequireSystemAdmin allows only system admins through. Must run after RequireAuth.
func RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if err := authz.RequireSystemAdmin(user); err != nil {
			apierrors.Forbidden(c, "System admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireProjectRole checks that the current user holds at least required
// in the project named by the :project_id parameter, then loads the project.
// Membership is checked first so that non-members cannot probe which
// project ids exist.
func RequireProjectRole(guard *authz.Guard, projects ProjectFinder, required models.ProjectRole, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("project_id"))
		if err != nil {
			apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Invalid project ID")
			c.Abort()
			return
		}

		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, err := guard.RequireProjectRole(c.Request.Context(), user, projectID, required)
		if err != nil {
			abortWithAccessError(c, err, log)
			return
		}

		project, err := projects.GetProject(c.Request.Context(), projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				log.Error("failed to load project", zap.String("project_id", projectID.String()), zap.Error(err))
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store project and effective role in context
		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyEffectiveRole, role)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectRole
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok && project != nil
}

// GetEffectiveRole retrieves the caller's role in the current project
func GetEffectiveRole(c *gin.Context) (models.ProjectRole, bool) {
	value, exists := c.Get(constants.ContextKeyEffectiveRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.ProjectRole)
	return role, ok
}

func abortWithAccessError(c *gin.Context, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, authz.ErrNotAMember):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotAMember, "Not a member of this project")
	case errors.Is(err, authz.ErrInsufficientRole):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeInsufficientRole, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "System admin privileges required")
	default:
		log.Error("authorization check failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
	c.Abort()
}
