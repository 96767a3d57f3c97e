package auth

import (
	"context"
	"fmt"
	"strings"

	"taskteam/internal/rbac"
	"taskteam/internal/users"
)

// UserByEmail is the lookup login needs from the user store.
type UserByEmail interface {
	FindByEmail(ctx context.Context, email string) (users.User, bool, error)
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token    string    `json:"token"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     rbac.Role `json:"role"`
	UserID   int64     `json:"user_id"`
}

// Authenticator checks email/password credentials and issues tokens.
type Authenticator struct {
	users   UserByEmail
	hasher  *Argon2Hasher
	tokens  *Manager
	limiter Limiter

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one hash computation.
	dummyHash string
}

func NewAuthenticator(u UserByEmail, hasher *Argon2Hasher, tokens *Manager, limiter Limiter) *Authenticator {
	return &Authenticator{
		users:     u,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		dummyHash: hasher.Hash("not-a-real-password"),
	}
}

// Login returns ok=false for an unknown email or a wrong password; the two
// cases are indistinguishable to the caller. err is reserved for store,
// limiter or signing failures.
func (a *Authenticator) Login(ctx context.Context, email, password string) (LoginResult, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, false, nil
	}

	u, found, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, false, err
	}

	stored := a.dummyHash
	if found {
		stored = u.PasswordHash
	}
	match, err := a.verify(ctx, password, stored)
	if err != nil {
		return LoginResult{}, false, err
	}
	if !found || !match {
		return LoginResult{}, false, nil
	}

	token, err := a.tokens.Issue(u)
	if err != nil {
		return LoginResult{}, false, fmt.Errorf("auth: issue token: %w", err)
	}
	return LoginResult{
		Token:    token,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		UserID:   u.ID,
	}, true, nil
}

func (a *Authenticator) verify(ctx context.Context, password, stored string) (bool, error) {
	if a.limiter != nil {
		release, err := a.limiter.Acquire(ctx)
		if err != nil {
			return false, err
		}
		defer release()
	}
	return a.hasher.Verify(password, stored), nil
}
