package authz

import "errors"

var (
	ErrForbidden          = errors.New("system admin required")
	ErrNotAMember         = errors.New("not a member of this project")
	ErrInsufficientRole   = errors.New("insufficient project role")
	ErrLastOwnerProtected = errors.New("project must keep at least one owner")
)
