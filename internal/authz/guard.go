package authz

import (
	"context"

	"taskteam/internal/rbac"
	"taskteam/internal/users"
)

// Continuation is the protected operation run once a gate lets the caller through.
type Continuation[T any] func(ctx context.Context, caller users.User) (T, error)

// GuardRoles runs next only for a resolved caller holding one of allowed.
// next's result is returned unchanged. Otherwise the zero T is returned with
// ErrUnauthenticated or ErrForbidden.
func GuardRoles[T any](ctx context.Context, s *Service, creds Credentials, allowed []rbac.Role, next Continuation[T]) (T, error) {
	d, err := s.AuthorizeRoles(ctx, creds, allowed...)
	return run(ctx, d, err, next)
}

// GuardTaskMutation runs next only when the caller may mutate taskID.
func GuardTaskMutation[T any](ctx context.Context, s *Service, creds Credentials, taskID int64, next Continuation[T]) (T, error) {
	d, err := s.AuthorizeTaskMutation(ctx, creds, taskID)
	return run(ctx, d, err, next)
}

func run[T any](ctx context.Context, d Decision, err error, next Continuation[T]) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if err := d.Err(); err != nil {
		return zero, err
	}
	return next(ctx, *d.Caller)
}
