package services

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRequired       = errors.New("email is required")
	ErrCannotModifySelf    = errors.New("system admins cannot demote or deactivate themselves")
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name cannot be empty")
	ErrMemberNotFound      = errors.New("member not found")
	ErrAlreadyMember       = errors.New("user is already a project member")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title cannot be empty")
	ErrAssigneeNotMember   = errors.New("assigned user is not a project member")
)
