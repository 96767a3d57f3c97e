package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events. It is append-only.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Service records security-relevant events.
type Service struct {
	repo  Repository
	clock func() time.Time
	log   *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, clock: time.Now, log: log}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends e and logs instead of returning a failure.
// A nil Service records nothing.
func (s *Service) Record(ctx context.Context, e Event) {
	if s == nil {
		return
	}
	if err := s.Append(ctx, e); err != nil {
		s.log.WarnContext(ctx, "audit append failed", "type", e.Type, "err", err)
	}
}

// LoginSucceeded records a successful login for userID.
func (s *Service) LoginSucceeded(ctx context.Context, userID int64, role, ip string) {
	s.Record(ctx, Event{Type: EventLoginSucceeded, ActorUserID: userID, ActorRole: role, IPAddress: ip})
}

// LoginFailed records a rejected login. The attempted email is not stored.
func (s *Service) LoginFailed(ctx context.Context, ip string) {
	s.Record(ctx, Event{Type: EventLoginFailed, IPAddress: ip, Message: "invalid credentials"})
}

func (s *Service) UserCreated(ctx context.Context, actorID int64, actorRole, ip string, userID int64) {
	s.Record(ctx, Event{Type: EventUserCreated, ActorUserID: actorID, ActorRole: actorRole, IPAddress: ip, TargetUserID: userID})
}

func (s *Service) TaskStatusChanged(ctx context.Context, actorID int64, actorRole, ip string, taskID int64, status string) {
	s.Record(ctx, Event{
		Type:         EventTaskStatusChanged,
		ActorUserID:  actorID,
		ActorRole:    actorRole,
		IPAddress:    ip,
		TargetTaskID: taskID,
		Message:      "status set to " + status,
	})
}
