package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyUserRequest is the body of POST /auth/admin/verify-user
type VerifyUserRequest struct {
	Email string `json:"email" binding:"required"`
}

// UpdateProfileRequest is the body of PATCH /users/me. Username and
// password may be cleared with null.
type UpdateProfileRequest struct {
	Email    *string                `json:"email" binding:"omitempty,email,max=255"`
	Username utils.Nullable[string] `json:"username"`
	Password utils.Nullable[string] `json:"password"`
}

// AdminUpdateUserRequest is the body of PATCH /admin/users/:user_id
type AdminUpdateUserRequest struct {
	SystemRole *models.SystemRole `json:"system_role"`
	IsActive   *bool              `json:"is_active"`
	IsVerified *bool              `json:"is_verified"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uuid.UUID         `json:"id"`
	Email      string            `json:"email"`
	Username   *string           `json:"username"`
	IsActive   bool              `json:"is_active"`
	IsVerified bool              `json:"is_verified"`
	SystemRole models.SystemRole `json:"system_role"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		SystemRole: user.SystemRole,
		CreatedAt:  user.CreatedAt,
	}
}

// ToUserListResponse converts a page of users to UserListResponse
func ToUserListResponse(users []models.User, page utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:      items,
		Pagination: page.Response(total),
	}
}
