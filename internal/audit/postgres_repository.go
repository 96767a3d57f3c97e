package audit

import (
	"context"
	"database/sql"
)

// PostgresRepository appends to:
//
//	audit_events(id uuid pk, type text, actor_user_id bigint null,
//	             actor_role text, ip_address text, target_user_id bigint null,
//	             target_task_id bigint null, message text, created_at timestamptz)
//
// Only INSERT is issued.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_events
  (id, type, actor_user_id, actor_role, ip_address, target_user_id, target_task_id, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, string(e.Type), nullID(e.ActorUserID), e.ActorRole, e.IPAddress,
		nullID(e.TargetUserID), nullID(e.TargetTaskID), e.Message, e.CreatedAt,
	)
	return err
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
