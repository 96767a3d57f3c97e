package tasks

import (
	"fmt"
	"time"
)

// Task is a unit of work assigned to a single user.
type Task struct {
	ID               int64     `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Status           Status    `json:"status" db:"status"`
	AssignedToUserID int64     `json:"assigned_to_user_id" db:"assigned_to_user_id"`
	CreatedByUserID  int64     `json:"created_by_user_id" db:"created_by_user_id"`
	TeamID           int64     `json:"team_id" db:"team_id"`
	DueDate          time.Time `json:"due_date" db:"due_date"`
}

type Status int

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusDone
)

func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "InProgress"
	case StatusDone:
		return "Done"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("tasks: invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Todo":
		*s = StatusTodo
	case "InProgress":
		*s = StatusInProgress
	case "Done":
		*s = StatusDone
	default:
		return fmt.Errorf("tasks: unknown status %q", string(b))
	}
	return nil
}
