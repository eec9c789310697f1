package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     *string        `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	PasswordHash *string        `gorm:"type:varchar(255)" json:"-"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	IsVerified   bool           `gorm:"not null" json:"is_verified"`
	SystemRole   SystemRole     `gorm:"type:varchar(20);not null;default:'user'" json:"system_role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the account has a password-based login path.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsSystemAdmin reports whether the user holds the system_admin role.
func (u *User) IsSystemAdmin() bool {
	switch u.SystemRole {
	case SystemRoleAdmin:
		return true
	case SystemRoleUser:
		return false
	default:
		return false
	}
}
