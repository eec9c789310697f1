package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/taskforge-api/internal/models"
	"gorm.io/gorm"
)

// MembershipFinder reads the membership row binding a user to a project.
// Implementations return gorm.ErrRecordNotFound when there is none.
type MembershipFinder interface {
	FindMembership(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectMember, error)
}

// Guard checks project access for authenticated users.
type Guard struct {
	members MembershipFinder
}

func NewGuard(members MembershipFinder) *Guard {
	return &Guard{members: members}
}

// RequireSystemAdmin allows only users holding the system_admin role.
func RequireSystemAdmin(user *models.User) error {
	if user == nil || !user.IsSystemAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireProjectRole grants access when user holds required or a higher role in
// the project and returns the effective role. System admins are granted
// owner without a membership lookup.
func (g *Guard) RequireProjectRole(ctx context.Context, user *models.User, projectID uuid.UUID, required models.ProjectRole) (models.ProjectRole, error) {
	if user.IsSystemAdmin() {
		return models.ProjectRoleOwner, nil
	}

	member, err := g.members.FindMembership(ctx, projectID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotAMember
		}
		return "", fmt.Errorf("failed to load membership: %w", err)
	}

	if !Satisfies(member.Role, required) {
		return member.Role, fmt.Errorf("%w: requires %s role or higher", ErrInsufficientRole, required)
	}

	return member.Role, nil
}
