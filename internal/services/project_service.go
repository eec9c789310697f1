package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"github.com/yukikurage/taskforge-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectService provides business logic for projects and their members.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		log:         log.Named("projects"),
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description *string
}

// CreateProject creates a project with creator as its sole owner.
func (s *ProjectService) CreateProject(ctx context.Context, creator *models.User, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		CreatedBy:   creator.ID,
	}

	if _, err := s.projectRepo.CreateWithOwner(ctx, project, creator.ID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", creator.ID.String()),
	)
	return project, nil
}

// ListProjectsForUser returns live projects the user belongs to.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, user *models.User, page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListForUser(ctx, user.ID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a live project.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput holds a partial project update.
type UpdateProjectInput struct {
	Name        *string
	Description utils.Nullable[string]
}

// UpdateProject applies input to project.
func (s *ProjectService) UpdateProject(ctx context.Context, project *models.Project, input UpdateProjectInput) (*models.Project, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description.Set {
		project.Description = input.Description.Value
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject soft deletes the project and its tasks. Former members then get ErrProjectNotFound.
func (s *ProjectService) DeleteProject(ctx context.Context, project *models.Project) error {
	if err := s.projectRepo.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info("project deleted", zap.String("project_id", project.ID.String()))
	return nil
}

// ListMembers lists all members of a project.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember invites an existing live user into the project with role.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uuid.UUID, role models.ProjectRole) (*models.ProjectMember, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMembership(ctx, projectID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	member.User = *user

	s.log.Info("member added",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
	)
	return member, nil
}

// UpdateMemberRole changes a member's role, refusing to demote the last owner.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role models.ProjectRole) (*models.ProjectMember, error) {
	var updated *models.ProjectMember

	err := s.projectRepo.WithinSerializableTx(ctx, func(repo repository.ProjectRepository) error {
		member, err := findMember(ctx, repo, projectID, userID)
		if err != nil {
			return err
		}

		if err := authz.EnsureOwnerRemains(ctx, repo, member, &role); err != nil {
			return err
		}

		if err := repo.UpdateMemberRole(ctx, member, role); err != nil {
			return fmt.Errorf("failed to update member role: %w", err)
		}
		updated = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("member role changed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
	)
	return updated, nil
}

// RemoveMember removes a member, refusing to remove the last owner.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	err := s.projectRepo.WithinSerializableTx(ctx, func(repo repository.ProjectRepository) error {
		member, err := findMember(ctx, repo, projectID, userID)
		if err != nil {
			return err
		}

		if err := authz.EnsureOwnerRemains(ctx, repo, member, nil); err != nil {
			return err
		}

		if err := repo.RemoveMember(ctx, member); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("member removed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func findMember(ctx context.Context, repo repository.ProjectRepository, projectID, userID uuid.UUID) (*models.ProjectMember, error) {
	member, err := repo.FindMembership(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}
