package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"taskteam/internal/rbac"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "users:v1:"
	DefaultCacheTTL = 30 * time.Second
)

// cachedUser is the cached projection of a user. The password hash is never cached.
type cachedUser struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      int       `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CachedRepository is a read-through Redis cache in front of a Repository for
// lookups by id, which is the hot path of caller resolution.
//
// Users returned by FindByID may come from the cache and then carry no
// PasswordHash. FindByEmail always goes to the underlying repository.
// Writes go through and invalidate the cached entry.
// Redis failures are logged and the underlying repository is used instead.
type CachedRepository struct {
	base Repository
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *slog.Logger
}

// NewCachedRepository wraps base. A nil rdb disables caching.
func NewCachedRepository(base Repository, rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedRepository{base: base, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *CachedRepository) FindByID(ctx context.Context, id int64) (User, bool, error) {
	if r.rdb == nil {
		return r.base.FindByID(ctx, id)
	}

	key := cacheKey(id)
	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jerr := json.Unmarshal(raw, &cu); jerr == nil {
			if u, ok := fromCached(cu); ok {
				return u, true, nil
			}
		}
		r.log.WarnContext(ctx, "user cache entry corrupt", "user_id", id)
	case errors.Is(err, redis.Nil):
	default:
		if ctx.Err() != nil {
			return User{}, false, ctx.Err()
		}
		r.log.WarnContext(ctx, "user cache read failed", "user_id", id, "err", err)
	}

	u, ok, err := r.base.FindByID(ctx, id)
	if err != nil || !ok {
		return u, ok, err
	}
	if b, jerr := json.Marshal(toCached(u)); jerr == nil {
		if serr := r.rdb.Set(ctx, key, b, r.ttl).Err(); serr != nil {
			r.log.WarnContext(ctx, "user cache write failed", "user_id", id, "err", serr)
		}
	}
	return u, true, nil
}

func (r *CachedRepository) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	return r.base.FindByEmail(ctx, email)
}

func (r *CachedRepository) Create(ctx context.Context, u User) (User, error) {
	return r.base.Create(ctx, u)
}

func (r *CachedRepository) Update(ctx context.Context, u User) error {
	if err := r.base.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

func (r *CachedRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.base.SetPasswordHash(ctx, id, hash)
}

func (r *CachedRepository) Delete(ctx context.Context, id int64) error {
	if err := r.base.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context, id int64) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.log.WarnContext(ctx, "user cache invalidation failed", "user_id", id, "err", err)
	}
}

func toCached(u User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      int(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// fromCached rejects entries without a recognized role or id; callers treat
// them as a miss.
func fromCached(cu cachedUser) (User, bool) {
	role := rbac.Role(cu.Role)
	if cu.ID <= 0 || !role.Valid() {
		return User{}, false
	}
	return User{
		ID:        cu.ID,
		FullName:  cu.FullName,
		Email:     cu.Email,
		Role:      role,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, true
}
