package authz

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"taskteam/internal/rbac"
	"taskteam/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoCaller(ctx context.Context, caller users.User) (string, error) {
	return caller.Email, nil
}

func TestGuardRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	managersOnly := []rbac.Role{rbac.RoleManager, rbac.RoleAdmin}

	out, err := GuardRoles(ctx, f.svc, Credentials{Authorization: f.bearer(t, manager)}, managersOnly, echoCaller)
	require.NoError(t, err)
	assert.Equal(t, manager.Email, out)

	out, err = GuardRoles(ctx, f.svc, Credentials{Authorization: f.bearer(t, employee)}, managersOnly, echoCaller)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, out)

	out, err = GuardRoles(ctx, f.svc, Credentials{}, managersOnly, echoCaller)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, out)

	_, err = GuardRoles(ctx, f.svc, Credentials{LegacyUserID: "1"}, nil, echoCaller)
	assert.ErrorIs(t, err, ErrForbidden, "empty role set authorizes nobody")
}

func TestGuardRoles_ContinuationResultPassesThrough(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	n, err := GuardRoles(context.Background(), f.svc, Credentials{LegacyUserID: "1"}, []rbac.Role{rbac.RoleAdmin},
		func(context.Context, users.User) (int, error) { return 42, boom })
	assert.Equal(t, 42, n)
	assert.ErrorIs(t, err, boom)
}

func TestGuardRoles_ContinuationNotCalledWhenDenied(t *testing.T) {
	f := newFixture(t)
	called := false
	_, _ = GuardRoles(context.Background(), f.svc, Credentials{LegacyUserID: "3"}, []rbac.Role{rbac.RoleAdmin},
		func(context.Context, users.User) (struct{}, error) {
			called = true
			return struct{}{}, nil
		})
	assert.False(t, called)
}

func TestGuardTaskMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		creds  Credentials
		taskID int64
		status int
	}{
		{"anonymous", Credentials{}, 10, http.StatusUnauthorized},
		{"employee owner", Credentials{Authorization: f.bearer(t, employee)}, 10, http.StatusOK},
		{"employee other", Credentials{Authorization: f.bearer(t, employee)}, 11, http.StatusForbidden},
		{"employee missing", Credentials{Authorization: f.bearer(t, employee)}, 404, http.StatusForbidden},
		{"manager missing", Credentials{Authorization: f.bearer(t, manager)}, 404, http.StatusOK},
		{"legacy admin", Credentials{LegacyUserID: "1"}, 11, http.StatusOK},
	}
	for _, tc := range cases {
		_, err := GuardTaskMutation(ctx, f.svc, tc.creds, tc.taskID, echoCaller)
		assert.Equal(t, tc.status, HTTPStatus(err), tc.name)
	}
}

func TestDecisionAndStatusMapping(t *testing.T) {
	assert.NoError(t, Decision{Outcome: Authorized}.Err())
	assert.ErrorIs(t, Decision{Outcome: Forbidden}.Err(), ErrForbidden)
	assert.ErrorIs(t, Decision{}.Err(), ErrUnauthenticated)

	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthenticated))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("db down")))
	assert.Equal(t, "forbidden", Forbidden.String())
}

func TestAuthorizeRoles_CarriesCaller(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.AuthorizeRoles(context.Background(), Credentials{LegacyUserID: "2"}, rbac.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, Forbidden, d.Outcome)
	require.NotNil(t, d.Caller)
	assert.Equal(t, manager.ID, d.Caller.ID)
}
