package users

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"taskteam/internal/rbac"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "users:v1:42", cacheKey(42))
}

func TestCachedUser_DropsPasswordHash(t *testing.T) {
	u := User{ID: 3, FullName: "A", Email: "a@x.com", PasswordHash: "secret", Role: rbac.RoleManager}
	got, ok := fromCached(toCached(u))
	require.True(t, ok)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, rbac.RoleManager, got.Role)
}

func TestCachedUser_MissingRoleIsAMiss(t *testing.T) {
	var cu cachedUser
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"full_name":"A","email":"a@x.com"}`), &cu))
	_, ok := fromCached(cu)
	assert.False(t, ok, "entry without role must not decode to a user")

	_, ok = fromCached(cachedUser{ID: 3, Role: 9})
	assert.False(t, ok)
	_, ok = fromCached(cachedUser{Role: int(rbac.RoleAdmin)})
	assert.False(t, ok)
}

func TestCachedRepository_NilClientPassesThrough(t *testing.T) {
	base := NewMemoryRepo()
	ctx := context.Background()
	u, err := base.Create(ctx, User{FullName: "A", Email: "a@x.com", PasswordHash: "h", Role: rbac.RoleAdmin})
	require.NoError(t, err)

	repo := NewCachedRepository(base, nil, 0, nil)
	got, ok, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h", got.PasswordHash)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, ok, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedRepository_UnreachableRedisFallsBack(t *testing.T) {
	base := NewMemoryRepo()
	ctx := context.Background()
	u, err := base.Create(ctx, User{FullName: "A", Email: "a@x.com", Role: rbac.RoleEmployee})
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	repo := NewCachedRepository(base, rdb, time.Second, nil)
	got, ok, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)

	_, ok, err = repo.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}
