package domain

import "strings"

// Role enumerates the desk's access levels.
type Role string

const (
	RoleGuest         Role = "Guest"
	RoleOperator      Role = "Operator"
	RoleAdministrator Role = "Administrator"
)

// ParseRole maps a wire role string onto the known set, defaulting to
// Guest for anything unrecognized. Matching ignores case: the desk
// serializes roles lowercase.
func ParseRole(raw string) Role {
	switch {
	case strings.EqualFold(raw, string(RoleOperator)):
		return RoleOperator
	case strings.EqualFold(raw, string(RoleAdministrator)):
		return RoleAdministrator
	default:
		return RoleGuest
	}
}

// In reports whether the role appears in the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
