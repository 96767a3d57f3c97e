package tasks

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Finder is the read side the ownership check depends on.
// A miss is reported as ok=false with a nil error.
type Finder interface {
	FindByID(ctx context.Context, id int64) (Task, bool, error)
}

// Repository abstracts task persistence.
type Repository interface {
	Finder
	Create(ctx context.Context, t Task) (Task, error)
	// UpdateStatus reports ok=false when the task does not exist.
	UpdateStatus(ctx context.Context, id int64, s Status) (bool, error)
}
