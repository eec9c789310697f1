package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/constants"
	apierrors "github.com/yukikurage/taskforge-api/internal/errors"
	"github.com/yukikurage/taskforge-api/internal/models"
	"go.uber.org/zap"
)

// RequireAuth authenticates the request with the bearer token from the
// Authorization header, falling back to the token held in the session
// cookie.
func RequireAuth(resolver *auth.IdentityResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := resolver.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Token has expired")
			case errors.Is(err, auth.ErrInvalidCredentials):
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, "Could not validate credentials")
			case errors.Is(err, auth.ErrUserNotFound):
				apierrors.Unauthorized(c, "User not found")
			case errors.Is(err, auth.ErrAccountInactive):
				apierrors.ForbiddenWithCode(c, apierrors.ErrCodeAccountInactive, "Account is inactive")
			default:
				log.Error("authentication failed", zap.Error(err))
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyCurrentUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// BearerToken extracts the access token from the request. The
// Authorization header wins over the session cookie.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, constants.BearerScheme) {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
