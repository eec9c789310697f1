package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSystemRole  = errors.New("invalid system role")
	ErrInvalidProjectRole = errors.New("invalid project role")
)

// SystemRole is the platform-wide role of a user.
type SystemRole string

const (
	SystemRoleAdmin SystemRole = "system_admin"
	SystemRoleUser  SystemRole = "user"
)

// ParseSystemRole converts a string into a SystemRole, rejecting unknown values.
func ParseSystemRole(s string) (SystemRole, error) {
	switch r := SystemRole(s); r {
	case SystemRoleAdmin, SystemRoleUser:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSystemRole, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *SystemRole) UnmarshalText(text []byte) error {
	parsed, err := ParseSystemRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ProjectRole is the role a user holds inside a single project.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
	ProjectRoleViewer ProjectRole = "viewer"
)

// ProjectRoles lists every project role from most to least privileged.
var ProjectRoles = []ProjectRole{
	ProjectRoleOwner,
	ProjectRoleAdmin,
	ProjectRoleMember,
	ProjectRoleViewer,
}

// ParseProjectRole converts a string into a ProjectRole, rejecting unknown values.
func ParseProjectRole(s string) (ProjectRole, error) {
	switch r := ProjectRole(s); r {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleMember, ProjectRoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProjectRole, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ProjectRole) UnmarshalText(text []byte) error {
	parsed, err := ParseProjectRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
