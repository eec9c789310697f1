package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/utils"
)

// Lookups return gorm.ErrRecordNotFound when nothing matches. Soft-deleted
// rows are never returned.

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a live user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmail finds a live user by exact email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a live user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Update persists every field of user
	Update(ctx context.Context, user *models.User) error

	// SoftDelete deactivates the user and sets deleted_at
	SoftDelete(ctx context.Context, user *models.User) error

	// List returns live users ordered by creation time
	List(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership atomically
	CreateWithOwner(ctx context.Context, project *models.Project, ownerID uuid.UUID) (*models.ProjectMember, error)

	// FindByID finds a live project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// ListForUser lists live projects the user is a member of
	ListForUser(ctx context.Context, userID uuid.UUID, page utils.PaginationParams) ([]models.Project, int64, error)

	// Update persists every field of project
	Update(ctx context.Context, project *models.Project) error

	// Delete soft deletes the project and its tasks; memberships are kept
	Delete(ctx context.Context, id uuid.UUID) error

	// FindMembership finds the membership binding userID to projectID
	FindMembership(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectMember, error)

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMember) error

	// UpdateMemberRole changes the role of an existing member
	UpdateMemberRole(ctx context.Context, member *models.ProjectMember, role models.ProjectRole) error

	// RemoveMember deletes a membership
	RemoveMember(ctx context.Context, member *models.ProjectMember) error

	// ListMembers lists all members of a project with their users
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error)

	// CountOwners counts owner-role members of a project
	CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error)

	// WithinSerializableTx runs fn against a repository bound to a
	// SERIALIZABLE transaction, retrying on serialization failures.
	WithinSerializableTx(ctx context.Context, fn func(repo ProjectRepository) error) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a live task by ID inside a project
	FindByID(ctx context.Context, projectID, taskID uuid.UUID) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update persists every field of task
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task
	Delete(ctx context.Context, task *models.Task) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID     uuid.UUID
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uuid.UUID
	CreatorID     *uuid.UUID
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          utils.PaginationParams
}
