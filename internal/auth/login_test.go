package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskteam/internal/rbac"
	"taskteam/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingUsers struct{ err error }

func (f failingUsers) FindByEmail(context.Context, string) (users.User, bool, error) {
	return users.User{}, false, f.err
}

func seededAuthenticator(t *testing.T) (*Authenticator, users.User) {
	t.Helper()
	h := testHasher()
	repo := users.NewMemoryRepo()
	svc := users.NewService(repo, h)

	u, err := svc.Create(context.Background(), users.NewUser{
		FullName: "Admin User",
		Email:    "admin@test.com",
		Password: "CorrectPassword123!",
		Role:     rbac.RoleAdmin,
	})
	require.NoError(t, err)

	m := newTestManager(t, testAuthConfig(60), time.Now())
	return NewAuthenticator(repo, h, m, NewLocalLimiter(2)), u
}

func TestLogin_Success(t *testing.T) {
	a, u := seededAuthenticator(t)

	res, ok, err := a.Login(context.Background(), "admin@test.com", "CorrectPassword123!")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "admin@test.com", res.Email)
	assert.Equal(t, "Admin User", res.FullName)
	assert.Equal(t, rbac.RoleAdmin, res.Role)

	claims, valid := a.tokens.Validate(res.Token)
	require.True(t, valid)
	id, _ := claims.UserID()
	assert.Equal(t, u.ID, id)
	assert.Equal(t, "Admin", claims.Role)
}

func TestLogin_WrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	a, _ := seededAuthenticator(t)
	ctx := context.Background()

	wrong, ok1, err := a.Login(ctx, "admin@test.com", "WrongPassword123!")
	require.NoError(t, err)
	unknown, ok2, err := a.Login(ctx, "nobody@test.com", "CorrectPassword123!")
	require.NoError(t, err)

	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.Equal(t, wrong, unknown)
	assert.Empty(t, wrong.Token)
}

func TestLogin_EmailIsTrimmedAndCaseInsensitive(t *testing.T) {
	a, _ := seededAuthenticator(t)
	_, ok, err := a.Login(context.Background(), "  ADMIN@test.com ", "CorrectPassword123!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	a, _ := seededAuthenticator(t)
	for _, c := range [][2]string{{"", "x"}, {"admin@test.com", ""}, {"   ", "x"}} {
		_, ok, err := a.Login(context.Background(), c[0], c[1])
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestLogin_StoreFailureIsAnError(t *testing.T) {
	boom := errors.New("db down")
	m := newTestManager(t, testAuthConfig(60), time.Now())
	a := NewAuthenticator(failingUsers{err: boom}, testHasher(), m, nil)

	_, ok, err := a.Login(context.Background(), "admin@test.com", "pw")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestLogin_CancelledWhileWaitingForHashSlot(t *testing.T) {
	a, _ := seededAuthenticator(t)
	a.limiter = NewLocalLimiter(1)

	// occupy the only slot
	release, err := a.limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, ok, err := a.Login(ctx, "admin@test.com", "CorrectPassword123!")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogin_NewEmployeeRoundTrip(t *testing.T) {
	h := testHasher()
	repo := users.NewMemoryRepo()
	ctx := context.Background()

	u, err := users.NewService(repo, h).Create(ctx, users.NewUser{
		FullName: "E", Email: "e@x.com", Password: "Pw1!", Role: rbac.RoleEmployee,
	})
	require.NoError(t, err)

	m := newTestManager(t, testAuthConfig(60), time.Now())
	res, ok, err := NewAuthenticator(repo, h, m, nil).Login(ctx, "e@x.com", "Pw1!")
	require.NoError(t, err)
	require.True(t, ok)

	claims, valid := m.Validate(res.Token)
	require.True(t, valid)
	assert.Equal(t, "Employee", claims.Role)
	id, ok := claims.UserID()
	require.True(t, ok)
	found, ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, found.ID)
}
