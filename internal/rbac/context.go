package rbac

import (
	"context"
	"errors"
)

type roleKey struct{}

// WithRole attaches the resolved caller's role to ctx.
func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, roleKey{}, r)
}

// RoleFromContext returns the role stored by WithRole.
func RoleFromContext(ctx context.Context) (Role, error) {
	if r, ok := ctx.Value(roleKey{}).(Role); ok && r.Valid() {
		return r, nil
	}
	return 0, errors.New("role not in context")
}
