package domain

import "strings"

// Role is an account's access level.
type Role string

const (
	// RoleUser is granted to every registered account.
	RoleUser Role = "user"

	// RoleAdmin can read balance reconciliation across all accounts.
	RoleAdmin Role = "admin"
)

// ParseRole resolves a role name. Matching ignores case and surrounding space.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Allows reports whether an account holding r may act as required.
func (r Role) Allows(required Role) bool {
	switch required {
	case RoleAdmin:
		return r == RoleAdmin
	default:
		return r == RoleUser || r == RoleAdmin
	}
}
