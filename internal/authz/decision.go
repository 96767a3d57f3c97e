package authz

import (
	"context"
	"errors"
	"net/http"

	"taskteam/internal/rbac"
	"taskteam/internal/users"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Outcome is the result of a gate.
type Outcome int

const (
	Unauthenticated Outcome = iota
	Forbidden
	Authorized
)

func (o Outcome) String() string {
	switch o {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Decision carries the outcome and, unless Unauthenticated, the caller.
type Decision struct {
	Outcome Outcome
	Caller  *users.User
}

// Err is nil for Authorized, otherwise ErrUnauthenticated or ErrForbidden.
func (d Decision) Err() error {
	switch d.Outcome {
	case Authorized:
		return nil
	case Forbidden:
		return ErrForbidden
	default:
		return ErrUnauthenticated
	}
}

// AuthorizeRoles resolves the caller and checks role membership.
func (s *Service) AuthorizeRoles(ctx context.Context, creds Credentials, allowed ...rbac.Role) (Decision, error) {
	caller, err := s.ResolveCaller(ctx, creds)
	if err != nil {
		return Decision{}, err
	}
	return s.decideRoles(caller, allowed...), nil
}

func (s *Service) decideRoles(caller *users.User, allowed ...rbac.Role) Decision {
	if caller == nil {
		return Decision{Outcome: Unauthenticated}
	}
	if !s.IsAuthorized(caller, allowed...) {
		return Decision{Outcome: Forbidden, Caller: caller}
	}
	return Decision{Outcome: Authorized, Caller: caller}
}

// AuthorizeTaskMutation resolves the caller and applies the task ownership rule.
func (s *Service) AuthorizeTaskMutation(ctx context.Context, creds Credentials, taskID int64) (Decision, error) {
	caller, err := s.ResolveCaller(ctx, creds)
	if err != nil {
		return Decision{}, err
	}
	return s.decideTaskMutation(ctx, caller, taskID)
}

func (s *Service) decideTaskMutation(ctx context.Context, caller *users.User, taskID int64) (Decision, error) {
	if caller == nil {
		return Decision{Outcome: Unauthenticated}, nil
	}
	ok, err := s.CanMutateTask(ctx, caller, taskID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Decision{Outcome: Forbidden, Caller: caller}, nil
	}
	return Decision{Outcome: Authorized, Caller: caller}, nil
}

// HTTPStatus maps gate and store errors to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
