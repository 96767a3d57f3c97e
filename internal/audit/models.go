package audit

import "time"

// Event is an append-only security audit record.
//
// Events are never updated or deleted. Recording is best-effort: an audit
// failure must not fail the request that caused it.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the resolved caller, or the matched user on login. 0 when unknown.
	ActorUserID int64  `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Exactly one target is typically set, depending on Type.
	TargetUserID int64 `json:"target_user_id,omitempty" db:"target_user_id"`
	TargetTaskID int64 `json:"target_task_id,omitempty" db:"target_task_id"`

	// Message is a short description for operators. It must never hold
	// passwords or tokens.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventUserCreated       EventType = "user_created"
	EventTaskStatusChanged EventType = "task_status_changed"
)
