package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
)

// OwnerCounter counts owner-role members of a project.
type OwnerCounter interface {
	CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// EnsureOwnerRemains fails with ErrLastOwnerProtected when changing member
// to newRole, or removing it (newRole nil), would leave the project
// without an owner.
//
// The count and the mutation that follows must run in the same
// serializable transaction.
func EnsureOwnerRemains(ctx context.Context, owners OwnerCounter, member *models.ProjectMember, newRole *models.ProjectRole) error {
	if member.Role != models.ProjectRoleOwner {
		return nil
	}
	if newRole != nil && *newRole == models.ProjectRoleOwner {
		return nil
	}

	count, err := owners.CountOwners(ctx, member.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	if count <= 1 {
		return ErrLastOwnerProtected
	}
	return nil
}
