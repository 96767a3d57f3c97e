package auth

import (
	"context"
	"log/slog"
	"time"

	"taskteam/pkg/utils"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many password hash/verify computations run at once.
// Acquire blocks until a slot is free or ctx is done.
type Limiter interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// LocalLimiter bounds hashing inside this process.
type LocalLimiter struct {
	sem *semaphore.Weighted
}

func NewLocalLimiter(n int) *LocalLimiter {
	if n <= 0 {
		n = 1
	}
	return &LocalLimiter{sem: semaphore.NewWeighted(int64(n))}
}

func (l *LocalLimiter) Acquire(ctx context.Context) (func(), error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { l.sem.Release(1) }, nil
}

const (
	redisLimiterKey     = "auth:hash:inflight"
	redisLimiterSlotTTL = 30 * time.Second
	redisLimiterMinWait = 5 * time.Millisecond
	redisLimiterMaxWait = 200 * time.Millisecond
)

// RedisLimiter bounds hashing across every instance sharing a Redis.
// If Redis is unavailable the slot is granted so logins keep working.
type RedisLimiter struct {
	rdb   *redis.Client
	limit int
	log   *slog.Logger
}

func NewRedisLimiter(rdb *redis.Client, limit int, log *slog.Logger) *RedisLimiter {
	if log == nil {
		log = slog.Default()
	}
	return &RedisLimiter{rdb: rdb, limit: limit, log: log}
}

func (l *RedisLimiter) Acquire(ctx context.Context) (func(), error) {
	wait := redisLimiterMinWait
	for {
		ok, err := utils.AcquireConcurrencyCap(ctx, l.rdb, redisLimiterKey, l.limit, redisLimiterSlotTTL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.log.WarnContext(ctx, "hash limiter unavailable, proceeding uncapped", "err", err)
			return func() {}, nil
		}
		if ok {
			return func() {
				// release even if the request context is already cancelled
				rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
				defer cancel()
				if err := utils.ReleaseConcurrencyCap(rctx, l.rdb, redisLimiterKey); err != nil {
					l.log.WarnContext(ctx, "hash limiter release failed", "err", err)
				}
			}, nil
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		if wait *= 2; wait > redisLimiterMaxWait {
			wait = redisLimiterMaxWait
		}
	}
}

// ChainLimiter acquires every limiter in order and releases in reverse.
type ChainLimiter []Limiter

func (c ChainLimiter) Acquire(ctx context.Context) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, l := range c {
		if l == nil {
			continue
		}
		rel, err := l.Acquire(ctx)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, rel)
	}
	return releaseAll, nil
}
