package domain

import "fmt"

// Role is the closed set of access classes a user can hold.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleStaff}

// ParseRole converts raw input into a Role, rejecting anything outside the enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff:
		return true
	}
	return false
}

// LoginPath is the entry page for unauthenticated visitors of the role's area.
func (r Role) LoginPath() string {
	return "/" + string(r) + "/login"
}

// DashboardPath is the landing page for authenticated members of the role.
func (r Role) DashboardPath() string {
	return "/" + string(r) + "/dashboard"
}

func (r Role) String() string {
	return string(r)
}
