package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingRepo struct{}

func (failingRepo) Append(context.Context, Event) error { return errors.New("db down") }

func TestService_AppendRequiresType(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	if err := svc.Append(context.Background(), Event{ActorUserID: 1}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestService_FillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.clock = func() time.Time { return now }

	svc.LoginSucceeded(context.Background(), 7, "Manager", "10.0.0.1")
	svc.LoginFailed(context.Background(), "10.0.0.2")

	evs := repo.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].ID == "" || evs[0].ID == evs[1].ID {
		t.Fatalf("expected distinct ids: %q %q", evs[0].ID, evs[1].ID)
	}
	if !evs[0].CreatedAt.Equal(now) {
		t.Fatalf("unexpected created_at %v", evs[0].CreatedAt)
	}
	if evs[0].Type != EventLoginSucceeded || evs[0].ActorUserID != 7 || evs[0].ActorRole != "Manager" {
		t.Fatalf("unexpected event %+v", evs[0])
	}
	if evs[1].Type != EventLoginFailed || evs[1].ActorUserID != 0 {
		t.Fatalf("unexpected event %+v", evs[1])
	}
}

func TestService_RecordIsBestEffort(t *testing.T) {
	svc := NewService(failingRepo{}, nil)
	svc.TaskStatusChanged(context.Background(), 1, "Admin", "", 10, "Done")

	var nilSvc *Service
	nilSvc.UserCreated(context.Background(), 1, "Admin", "", 2)
}

func TestMemoryRepo_EventsIsACopy(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	svc.UserCreated(context.Background(), 1, "Admin", "", 2)

	evs := repo.Events()
	evs[0].Message = "changed"
	if repo.Events()[0].Message == "changed" {
		t.Fatalf("Events must return a copy")
	}
}
