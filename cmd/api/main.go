package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskteam/internal/audit"
	"taskteam/internal/auth"
	"taskteam/internal/authz"
	"taskteam/internal/config"
	"taskteam/internal/httpapi"
	"taskteam/internal/tasks"
	"taskteam/internal/users"
	"taskteam/pkg/logger"
	"taskteam/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth, auth.WithLogger(log))
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	app := buildApp(cfg, log, tokens, db, rdb)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, app.handlers, app.authz, func(ctx context.Context) error {
		return utils.HealthCheck(ctx, db, 2*time.Second)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

type app struct {
	handlers httpapi.Handlers
	authz    *authz.Service
}

// buildApp wires stores, caches and services. rdb may be nil.
func buildApp(cfg config.Config, log *slog.Logger, tokens *auth.Manager, db *sql.DB, rdb *redis.Client) app {
	var userRepo users.Repository = users.NewPostgresRepository(db)
	limiters := auth.ChainLimiter{auth.NewLocalLimiter(cfg.Auth.HashConcurrency)}
	if rdb != nil {
		userRepo = users.NewCachedRepository(userRepo, rdb, cfg.Redis.UserCacheTTL, log)
		if cfg.Auth.HashClusterLimit > 0 {
			limiters = append(limiters, auth.NewRedisLimiter(rdb, cfg.Auth.HashClusterLimit, log))
		}
	}
	taskRepo := tasks.NewPostgresRepository(db)

	hasher := auth.NewArgon2Hasher(auth.DefaultArgon2Params())

	return app{
		handlers: httpapi.Handlers{
			Auth:  auth.NewAuthenticator(userRepo, hasher, tokens, limiters),
			Users: users.NewService(userRepo, hasher),
			Tasks: tasks.NewService(taskRepo),
			Audit: audit.NewService(audit.NewPostgresRepository(db), log),
		},
		authz: authz.NewService(tokens, userRepo, taskRepo, log),
	}
}
