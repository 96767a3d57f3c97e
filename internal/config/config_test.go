package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		App: AppConfig{Env: "local", Port: 8080},
		DB:  DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "taskteam"},
		Auth: AuthConfig{
			JWTSecret:        testSecret,
			JWTIssuer:        "TaskTeamManagementSystem",
			JWTAudience:      "TaskTeamManagementSystemUsers",
			JWTExpiryMinutes: 60,
		},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Redis.UserCacheTTL != defaultUserCacheTTL {
		t.Fatalf("expected default cache ttl, got %v", c.Redis.UserCacheTTL)
	}
	if c.Auth.HashConcurrency <= 0 {
		t.Fatalf("expected hash concurrency default")
	}
	if c.RedisEnabled() {
		t.Fatalf("redis should be disabled without REDIS_HOST")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_ShortSecretIsFatal(t *testing.T) {
	c := validConfig()
	c.Auth.JWTSecret = "too-short"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestValidate_IssuerAndAudienceRequired(t *testing.T) {
	c := validConfig()
	c.Auth.JWTIssuer = ""
	c.Auth.JWTAudience = ""
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_ISSUER") || !strings.Contains(err.Error(), "JWT_AUDIENCE") {
		t.Fatalf("expected issuer and audience errors, got %v", err)
	}
}

func TestValidate_ClusterLimitNeedsRedis(t *testing.T) {
	c := validConfig()
	c.Auth.HashClusterLimit = 4
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for HASH_CLUSTER_LIMIT without redis")
	}
}

func TestTokenTTL_AllowsNegative(t *testing.T) {
	a := AuthConfig{JWTExpiryMinutes: -1}
	if a.TokenTTL() != -time.Minute {
		t.Fatalf("expected -1m, got %v", a.TokenTTL())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "iss")
	t.Setenv("JWT_AUDIENCE", "aud")
	t.Setenv("JWT_EXPIRY_MINUTES", "-5")
	t.Setenv("USER_CACHE_TTL", "10s")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Auth.JWTExpiryMinutes != -5 {
		t.Fatalf("expected -5 minutes, got %d", c.Auth.JWTExpiryMinutes)
	}
	if c.RedisAddr() != "cache:6379" {
		t.Fatalf("unexpected redis addr %q", c.RedisAddr())
	}
	if c.Redis.UserCacheTTL != 10*time.Second {
		t.Fatalf("unexpected cache ttl %v", c.Redis.UserCacheTTL)
	}
}

func TestLoad_DefaultExpiry(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "iss")
	t.Setenv("JWT_AUDIENCE", "aud")
	t.Setenv("JWT_EXPIRY_MINUTES", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Auth.JWTExpiryMinutes != defaultExpiryMinutes {
		t.Fatalf("expected default expiry, got %d", c.Auth.JWTExpiryMinutes)
	}
}

func TestLoad_BadIntegerIsReported(t *testing.T) {
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("JWT_EXPIRY_MINUTES", "soon")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "APP_PORT") || !strings.Contains(err.Error(), "JWT_EXPIRY_MINUTES") {
		t.Fatalf("expected parse errors, got %v", err)
	}
}
