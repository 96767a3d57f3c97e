package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskteam/internal/rbac"
	"taskteam/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
//	users (
//	  id            BIGSERIAL PRIMARY KEY,
//	  full_name     TEXT NOT NULL,
//	  email         TEXT NOT NULL,
//	  password_hash TEXT NOT NULL,
//	  role          SMALLINT NOT NULL,
//	  created_at    TIMESTAMPTZ NOT NULL,
//	  updated_at    TIMESTAMPTZ NOT NULL
//	)
//	UNIQUE INDEX ON users (lower(email))

// PostgresRepository implements Repository on database/sql with the pgx driver.
type PostgresRepository struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, clock: time.Now}
}

const selectUser = `
SELECT id, full_name, email, password_hash, role, created_at, updated_at
FROM users
`

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, bool, error) {
	return r.findOne(ctx, selectUser+"WHERE id = $1", id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	return r.findOne(ctx, selectUser+"WHERE lower(email) = lower($1)", email)
}

func (r *PostgresRepository) findOne(ctx context.Context, q string, arg any) (User, bool, error) {
	var (
		u    User
		role int16
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("users: query: %w", err)
	}
	u.Role = rbac.Role(role)
	return u, true, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	now := r.clock().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, u.Email,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}

		const q = `
INSERT INTO users (full_name, email, password_hash, role, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`
		return tx.QueryRowContext(ctx, q,
			u.FullName,
			u.Email,
			u.PasswordHash,
			int16(u.Role),
			u.CreatedAt,
			u.UpdatedAt,
		).Scan(&u.ID)
	})
	if err != nil {
		return User{}, mapWriteErr(err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u User) error {
	const q = `
UPDATE users
SET full_name = $2, email = $3, role = $4, updated_at = $5
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, u.ID, u.FullName, u.Email, int16(u.Role), r.clock().UTC())
	if err != nil {
		return mapWriteErr(err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, hash, r.clock().UTC())
	if err != nil {
		return fmt.Errorf("users: set password: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	ok, err := utils.Affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if errors.Is(err, ErrEmailTaken) || utils.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return fmt.Errorf("users: write: %w", err)
}
