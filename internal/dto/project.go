package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
}

// UpdateProjectRequest is the body of PATCH /projects/:project_id
type UpdateProjectRequest struct {
	Name        *string                `json:"name" binding:"omitempty,max=255"`
	Description utils.Nullable[string] `json:"description"`
}

// AddMemberRequest is the body of POST /projects/:project_id/members.
// Role defaults to member.
type AddMemberRequest struct {
	UserID uuid.UUID           `json:"user_id" binding:"required"`
	Role   *models.ProjectRole `json:"role"`
}

// UpdateMemberRoleRequest is the body of PATCH /projects/:project_id/members/:user_id
type UpdateMemberRoleRequest struct {
	Role models.ProjectRole `json:"role" binding:"required"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	CreatedBy   uuid.UUID          `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Role        models.ProjectRole `json:"role,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// MemberDTO represents a project membership in API responses
type MemberDTO struct {
	UserID   uuid.UUID          `json:"user_id"`
	Email    string             `json:"email,omitempty"`
	Username *string            `json:"username,omitempty"`
	Role     models.ProjectRole `json:"role"`
	AddedAt  time.Time          `json:"added_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO. role is the
// caller's effective role and may be empty.
func ToProjectDTO(project models.Project, role models.ProjectRole) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Role:        role,
	}
}

// ToProjectListResponse converts a page of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project, "")
	}
	return ProjectListResponse{
		Projects:   items,
		Pagination: page.Response(total),
	}
}

// ToMemberDTO converts a ProjectMember model to MemberDTO
func ToMemberDTO(member models.ProjectMember) MemberDTO {
	dto := MemberDTO{
		UserID:  member.UserID,
		Role:    member.Role,
		AddedAt: member.AddedAt,
	}

	// Include user details if preloaded
	if member.User.ID != uuid.Nil {
		dto.Email = member.User.Email
		dto.Username = member.User.Username
	}
	return dto
}

// ToMemberDTOs converts a slice of memberships
func ToMemberDTOs(members []models.ProjectMember) []MemberDTO {
	items := make([]MemberDTO, len(members))
	for i, member := range members {
		items[i] = ToMemberDTO(member)
	}
	return items
}
