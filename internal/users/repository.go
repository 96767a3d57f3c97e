package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Finder is the read side needed to resolve callers and log users in.
// A miss is reported as ok=false with a nil error.
type Finder interface {
	FindByID(ctx context.Context, id int64) (User, bool, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
}

// Repository abstracts user persistence.
// Update never touches the password hash; use SetPasswordHash for that.
type Repository interface {
	Finder
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}
