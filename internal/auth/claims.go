package auth

import (
	"strconv"

	"taskteam/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the only supported JWT claims shape for this service.
// Subject carries the user id; ID (jti) makes every token unique.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserID parses the subject claim.
func (c Claims) UserID() (int64, bool) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParsedRole maps the role claim back to a Role. Unknown names are not
// recognized and authorize nothing.
func (c Claims) ParsedRole() (rbac.Role, bool) {
	return rbac.ParseRole(c.Role)
}
