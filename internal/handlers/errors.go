package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/authz"
	apierrors "github.com/yukikurage/taskforge-api/internal/errors"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
)

// respondError maps a domain error onto the API error envelope. Errors
// that carry no domain meaning are logged and reported as 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	// Authentication
	case errors.Is(err, auth.ErrInvalidCredentials):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, "Incorrect email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrAccountInactive):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeAccountInactive, "Account is inactive")
	case errors.Is(err, auth.ErrNotVerified):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotVerified, "Account is not verified")
	case errors.Is(err, auth.ErrWeakPassword):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeWeakPassword, auth.ErrWeakPassword.Error())
	case errors.Is(err, auth.ErrAlreadyTaken):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())

	// Authorization
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(c, "System admin privileges required")
	case errors.Is(err, authz.ErrNotAMember):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotAMember, "Not a member of this project")
	case errors.Is(err, authz.ErrInsufficientRole):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeInsufficientRole, err.Error())
	case errors.Is(err, authz.ErrLastOwnerProtected):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeLastOwner, "Cannot remove or demote the last owner of a project")
	case errors.Is(err, services.ErrCannotModifySelf):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidOperation, err.Error())

	// Lookups
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())

	// Validation
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, err.Error())

	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		apierrors.InternalError(c, "")
	}
}

func respondBindError(c *gin.Context, err error) {
	apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
}
