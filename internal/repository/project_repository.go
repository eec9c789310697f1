package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db         *gorm.DB
	maxRetries int
}

// NewProjectRepository creates a new ProjectRepository. maxRetries bounds
// the attempts made by WithinSerializableTx.
func NewProjectRepository(db *gorm.DB, maxRetries int) ProjectRepository {
	return &GormProjectRepository{db: db, maxRetries: maxRetries}
}

// CreateWithOwner creates a project and the creator's owner membership
func (r *GormProjectRepository) CreateWithOwner(ctx context.Context, project *models.Project, ownerID uuid.UUID) (*models.ProjectMember, error) {
	member := &models.ProjectMember{
		UserID: ownerID,
		Role:   models.ProjectRoleOwner,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member.ProjectID = project.ID
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists the projects a user belongs to, newest first
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Order("projects.created_at DESC").
		Scopes(database.Paginate(page)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Members").Save(project).Error
}

// Delete soft deletes a project and its tasks in a transaction. Membership
// rows are kept so former members still resolve their role and see the
// project as gone.
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindMembership finds a specific project member
func (r *GormProjectRepository) FindMembership(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).Omit("User").Create(member).Error
}

// UpdateMemberRole changes a member's role
func (r *GormProjectRepository) UpdateMemberRole(ctx context.Context, member *models.ProjectMember, role models.ProjectRole) error {
	if err := r.db.WithContext(ctx).Model(member).Update("role", role).Error; err != nil {
		return err
	}
	member.Role = role
	return nil
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", member.ProjectID, member.UserID).
		Delete(&models.ProjectMember{}).Error
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Order("added_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountOwners counts the owners of a project
func (r *GormProjectRepository) CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, models.ProjectRoleOwner).
		Count(&count).Error
	return count, err
}

// WithinSerializableTx runs fn in a serializable transaction with retries
func (r *GormProjectRepository) WithinSerializableTx(ctx context.Context, fn func(repo ProjectRepository) error) error {
	return database.WithSerializableRetry(ctx, r.db, r.maxRetries, func(tx *gorm.DB) error {
		return fn(&GormProjectRepository{db: tx, maxRetries: r.maxRetries})
	})
}
