package rbac

import "errors"

// Domain errors for role handling.
var (
	// ErrInvalidRole is returned when a role name is not one of the known roles.
	ErrInvalidRole = errors.New("rbac.invalid_role")

	// ErrInsufficientRole is returned when a role is not part of the required capability set.
	ErrInsufficientRole = errors.New("rbac.insufficient_role")

	// ErrRoleNotInContext is returned when no role is found in the context.
	ErrRoleNotInContext = errors.New("rbac.role_not_in_context")
)
