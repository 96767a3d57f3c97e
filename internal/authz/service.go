package authz

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"taskteam/internal/auth"
	"taskteam/internal/rbac"
	"taskteam/internal/tasks"
	"taskteam/internal/users"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderLegacyUserID  = "X-User-Id"
)

// TokenValidator is the part of auth.Manager the resolver needs.
type TokenValidator interface {
	Validate(token string) (auth.Claims, bool)
}

// Credentials are the raw identity carriers of one request.
type Credentials struct {
	Authorization string
	LegacyUserID  string
}

func CredentialsFromHeader(h http.Header) Credentials {
	return Credentials{
		Authorization: h.Get(HeaderAuthorization),
		LegacyUserID:  h.Get(HeaderLegacyUserID),
	}
}

// Service resolves callers and answers role and task-ownership questions.
// It holds no mutable state; lookups go to the user and task stores.
type Service struct {
	tokens TokenValidator
	users  users.Finder
	tasks  tasks.Finder
	log    *slog.Logger
}

func NewService(tokens TokenValidator, u users.Finder, t tasks.Finder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{tokens: tokens, users: u, tasks: t, log: log}
}

// ResolveCaller returns the persisted user behind creds, or nil.
//
// A bearer token wins over X-User-Id: once a token validates and names a user
// id, its lookup result is final even if that user no longer exists. Only when
// no usable token is present is the legacy header consulted.
// err is non-nil only when a store lookup fails.
func (s *Service) ResolveCaller(ctx context.Context, creds Credentials) (*users.User, error) {
	if id, ok := s.tokenSubject(creds.Authorization); ok {
		return s.lookup(ctx, id)
	}

	raw := strings.TrimSpace(creds.LegacyUserID)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, nil
	}
	return s.lookup(ctx, id)
}

func (s *Service) tokenSubject(header string) (int64, bool) {
	token, ok := bearerToken(header)
	if !ok {
		return 0, false
	}
	claims, ok := s.tokens.Validate(token)
	if !ok {
		return 0, false
	}
	if _, ok := claims.ParsedRole(); !ok {
		s.log.Debug("token rejected", "reason", "role", "role", claims.Role)
		return 0, false
	}
	return claims.UserID()
}

func (s *Service) lookup(ctx context.Context, id int64) (*users.User, error) {
	u, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("authz: find user %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// IsAuthorized reports whether caller holds one of allowed.
// A nil caller or an empty allowed set is never authorized.
func (s *Service) IsAuthorized(caller *users.User, allowed ...rbac.Role) bool {
	if caller == nil {
		return false
	}
	return rbac.Allows(caller.Role, allowed...)
}

// CanMutateTask reports whether caller may change task taskID.
// Admins and Managers may change any task id, existing or not. Employees may
// only change tasks assigned to them; a missing task answers false, the same
// as somebody else's task.
func (s *Service) CanMutateTask(ctx context.Context, caller *users.User, taskID int64) (bool, error) {
	if caller == nil {
		return false, nil
	}
	if rbac.CanMutateAnyTask(caller.Role) {
		return true, nil
	}
	if caller.Role != rbac.RoleEmployee {
		return false, nil
	}

	t, found, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("authz: find task %d: %w", taskID, err)
	}
	return found && t.AssignedToUserID == caller.ID, nil
}
