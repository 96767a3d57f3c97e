package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskteam/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
//	tasks (
//	  id                  BIGSERIAL PRIMARY KEY,
//	  title               TEXT NOT NULL,
//	  description         TEXT NOT NULL,
//	  status              SMALLINT NOT NULL,
//	  assigned_to_user_id BIGINT NOT NULL,
//	  created_by_user_id  BIGINT NOT NULL,
//	  team_id             BIGINT NOT NULL,
//	  due_date            TIMESTAMPTZ NOT NULL
//	)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Task, bool, error) {
	const q = `
SELECT id, title, description, status, assigned_to_user_id, created_by_user_id, team_id, due_date
FROM tasks
WHERE id = $1
`
	var (
		t      Task
		status int16
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&t.AssignedToUserID,
		&t.CreatedByUserID,
		&t.TeamID,
		&t.DueDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, false, nil
		}
		return Task{}, false, fmt.Errorf("tasks: query: %w", err)
	}
	t.Status = Status(status)
	return t, true, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t Task) (Task, error) {
	const q = `
INSERT INTO tasks (title, description, status, assigned_to_user_id, created_by_user_id, team_id, due_date)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`
	if err := r.db.QueryRowContext(ctx, q,
		t.Title,
		t.Description,
		int16(t.Status),
		t.AssignedToUserID,
		t.CreatedByUserID,
		t.TeamID,
		t.DueDate.UTC(),
	).Scan(&t.ID); err != nil {
		return Task{}, fmt.Errorf("tasks: insert: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, s Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = $2 WHERE id = $1`, id, int16(s))
	if err != nil {
		return false, fmt.Errorf("tasks: update status: %w", err)
	}
	return utils.Affected(res)
}
