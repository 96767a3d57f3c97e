package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"taskteam/internal/config"
	"taskteam/internal/users"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and validates HS256 identity tokens.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration

	clock func() time.Time
	log   *slog.Logger
}

type Option func(*Manager)

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.clock = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager validates cfg once. A secret shorter than config.MinSecretLength,
// or a missing issuer or audience, is a startup error.
func NewManager(cfg config.AuthConfig, opts ...Option) (*Manager, error) {
	if len(cfg.JWTSecret) < config.MinSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d bytes", config.MinSecretLength)
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("auth: JWT issuer is required")
	}
	if cfg.JWTAudience == "" {
		return nil, errors.New("auth: JWT audience is required")
	}

	m := &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL(),
		clock:    time.Now,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// TTL is the configured token lifetime. It may be negative.
func (m *Manager) TTL() time.Duration { return m.ttl }

/* ===================== ISSUE ===================== */

// Issue signs a token for u carrying subject, email, name, role and a fresh jti.
func (m *Manager) Issue(u users.User) (string, error) {
	if !u.Role.Valid() {
		return "", fmt.Errorf("auth: cannot issue token for role %v", u.Role)
	}
	now := m.clock()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		Email: u.Email,
		Name:  u.FullName,
		Role:  u.Role.String(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

/* ===================== VALIDATE ===================== */

// Validate returns the token's claims when its signature, issuer, audience,
// iat and exp all check out. There is no clock-skew allowance.
// Every failure is reported as ok=false; the reason is only logged.
func (m *Manager) Validate(token string) (Claims, bool) {
	claims, err := m.verify(token)
	if err != nil {
		m.log.Debug("token rejected", "reason", rejectReason(err), "err", err)
		return Claims{}, false
	}
	return claims, true
}

func (m *Manager) verify(token string) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)

	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return Claims{}, err
	}

	if claims.Subject == "" {
		return Claims{}, errors.New("sub missing")
	}
	if claims.ID == "" {
		return Claims{}, errors.New("jti missing")
	}
	return claims, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "audience"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return "not_yet_valid"
	default:
		return "invalid"
	}
}
