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

// ProjectHandler serves projects and their memberships. Access checks run
// in middleware.RequireProjectRole before these handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	log            *zap.Logger
}

func NewProjectHandler(projectService *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), user, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project, models.ProjectRoleOwner))
}

// ListProjects returns the projects the caller is a member of
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projectService.ListProjectsForUser(c.Request.Context(), user, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params, total))
}

// GetProject returns the project loaded by middleware
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, role, ok := projectFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, role))
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, role, ok := projectFromContext(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.projectService.UpdateProject(c.Request.Context(), project, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated, role))
}

// DeleteProject soft-deletes the project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), project); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers returns every membership of the project
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberDTOs(members)})
}

// AddMember adds an existing user to the project
func (h *ProjectHandler) AddMember(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role := models.ProjectRoleMember
	if req.Role != nil {
		role = *req.Role
	}

	member, err := h.projectService.AddMember(c.Request.Context(), project.ID, req.UserID, role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

// UpdateMemberRole changes the role of a member
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Invalid user ID")
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.projectService.UpdateMemberRole(c.Request.Context(), project.ID, userID, req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

// RemoveMember removes a member from the project
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	project, _, ok := projectFromContext(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), project.ID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func projectFromContext(c *gin.Context) (*models.Project, models.ProjectRole, bool) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return nil, "", false
	}
	role, _ := middleware.GetEffectiveRole(c)
	return project, role, true
}
