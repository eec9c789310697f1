package constants

import "time"

// Context keys
const (
	ContextKeyUserID        = "user_id"
	ContextKeyCurrentUser   = "current_user"
	ContextKeyProject       = "project"
	ContextKeyEffectiveRole = "effective_role"
	ContextKeyTask          = "task"
)

// Session
const (
	SessionCookieName = "taskforge_session"
	SessionKeyToken   = "access_token"
)

// Auth
const (
	MinPasswordLength     = 8
	DefaultAccessTokenTTL = 30 * time.Minute
	BearerScheme          = "Bearer"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Database
const (
	DefaultSerializableRetries = 5
)
