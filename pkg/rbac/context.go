package rbac

import "context"

// roleCtxKey is the context key for storing role information.
type roleCtxKey struct{}

// SetRoleToContext stores the current user's role in the context.
func SetRoleToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// GetRoleFromContext retrieves the current user's role from the context.
func GetRoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok
}

// RoleFromContext is like GetRoleFromContext but reports a missing role as ErrRoleNotInContext.
func RoleFromContext(ctx context.Context) (Role, error) {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return "", ErrRoleNotInContext
	}
	return role, nil
}
