package users

import (
	"time"

	"taskteam/internal/rbac"
)

// User is a persisted account.
// PasswordHash holds the encoded StoredHash; plaintext passwords are never stored.
type User struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         rbac.Role `json:"role" db:"role"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser is the input for account creation.
type NewUser struct {
	FullName string
	Email    string
	Password string
	Role     rbac.Role
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	FullName *string
	Email    *string
	Password *string
	Role     *rbac.Role
}
