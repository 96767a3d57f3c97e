package tasks

import (
	"context"
	"strings"
)

// Service holds task writes. Authorization happens before these are called.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, t Task) (Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Title == "" || t.Description == "" || !t.Status.Valid() {
		return Task{}, ErrInvalidArgument
	}
	if t.AssignedToUserID <= 0 || t.CreatedByUserID <= 0 || t.TeamID <= 0 || t.DueDate.IsZero() {
		return Task{}, ErrInvalidArgument
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id int64) (Task, bool, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus returns ErrNotFound when the task does not exist.
func (s *Service) UpdateStatus(ctx context.Context, id int64, st Status) error {
	if id <= 0 || !st.Valid() {
		return ErrInvalidArgument
	}
	ok, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
