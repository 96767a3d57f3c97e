package auth

import (
	"context"
	"errors"

	"taskteam/internal/users"
)

type callerKey struct{}

var ErrNoCaller = errors.New("caller not in context")

// WithCaller binds the resolved caller to the request context.
func WithCaller(ctx context.Context, u users.User) context.Context {
	return context.WithValue(ctx, callerKey{}, u)
}

// CallerFromContext returns the caller stored by WithCaller.
func CallerFromContext(ctx context.Context) (users.User, error) {
	if u, ok := ctx.Value(callerKey{}).(users.User); ok && u.ID != 0 {
		return u, nil
	}
	return users.User{}, ErrNoCaller
}
