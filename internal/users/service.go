package users

import (
	"context"
	"strings"
)

// PasswordHasher produces the StoredHash persisted for a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) string
}

// Service owns account writes. Passwords are hashed before they reach the repository.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) Create(ctx context.Context, in NewUser) (User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" || in.Password == "" || !in.Role.Valid() {
		return User{}, ErrInvalidArgument
	}

	return s.repo.Create(ctx, User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: s.hasher.Hash(in.Password),
		Role:         in.Role,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (User, bool, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies ch to the user. A password change replaces the stored hash.
func (s *Service) Update(ctx context.Context, id int64, ch Changes) (User, error) {
	u, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrNotFound
	}

	if ch.FullName != nil {
		u.FullName = strings.TrimSpace(*ch.FullName)
	}
	if ch.Email != nil {
		u.Email = strings.TrimSpace(*ch.Email)
	}
	if ch.Role != nil {
		u.Role = *ch.Role
	}
	if u.FullName == "" || u.Email == "" || !u.Role.Valid() {
		return User{}, ErrInvalidArgument
	}
	if ch.Password != nil && *ch.Password == "" {
		return User{}, ErrInvalidArgument
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	if ch.Password != nil {
		if err := s.repo.SetPasswordHash(ctx, id, s.hasher.Hash(*ch.Password)); err != nil {
			return User{}, err
		}
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
