package rbac

import "fmt"

// Role is the closed set of roles a user can hold.
// Authorization is set membership; there is no implied ordering between roles.
type Role int

// Role values. The numeric values are persisted; keep them stable.
// The zero Role is not a role, so an unset field authorizes nothing.
const (
	RoleAdmin Role = iota + 1
	RoleManager
	RoleEmployee
)

// Canonical role names. These are the only values accepted in token claims.
const (
	nameAdmin    = "Admin"
	nameManager  = "Manager"
	nameEmployee = "Employee"
)

// AllRoles lists every recognized role.
func AllRoles() []Role { return []Role{RoleAdmin, RoleManager, RoleEmployee} }

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return nameAdmin
	case RoleManager:
		return nameManager
	case RoleEmployee:
		return nameEmployee
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// ParseRole maps a canonical role name back to a Role.
// Matching is exact; anything else is reported as not recognized.
func ParseRole(s string) (Role, bool) {
	switch s {
	case nameAdmin:
		return RoleAdmin, true
	case nameManager:
		return RoleManager, true
	case nameEmployee:
		return RoleEmployee, true
	default:
		return 0, false
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("rbac: invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, ok := ParseRole(string(b))
	if !ok {
		return fmt.Errorf("rbac: unknown role %q", string(b))
	}
	*r = v
	return nil
}

// Allows reports whether role is a member of allowed.
// An empty allowed set never matches.
func Allows(role Role, allowed ...Role) bool {
	if !role.Valid() {
		return false
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// CanMutateAnyTask reports whether role may change tasks regardless of assignment.
func CanMutateAnyTask(role Role) bool {
	return role == RoleAdmin || role == RoleManager
}
