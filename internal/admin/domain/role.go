package domain

import "fmt"

// Role is the closed set of administrator roles. Authorization decisions
// must switch exhaustively over these values rather than compare strings.
type Role string

const (
	// RoleSuperAdmin can manage administrator accounts in addition to
	// everything RoleSD can do.
	RoleSuperAdmin Role = "super_admin"
	// RoleSD is a service-delivery administrator.
	RoleSD Role = "sd"
)

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleSD:
		return RoleSD, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CanManageAccounts reports whether the role may create, list, or delete
// administrator accounts.
func (r Role) CanManageAccounts() bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleSD:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
