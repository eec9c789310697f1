package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectMember binds one user to one project with exactly one role.
type ProjectMember struct {
	ID        uuid.UUID   `gorm:"type:char(36);primaryKey" json:"id"`
	ProjectID uuid.UUID   `gorm:"type:char(36);not null;uniqueIndex:uq_project_user" json:"project_id"`
	UserID    uuid.UUID   `gorm:"type:char(36);not null;uniqueIndex:uq_project_user" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	AddedAt   time.Time   `gorm:"not null" json:"added_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now()
	}
	return nil
}
