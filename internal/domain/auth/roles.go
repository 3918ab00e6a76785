package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Authorization decisions switch on
// this type rather than comparing raw strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleGuest    Role = "guest"

	// RoleUnset is the zero Role: the caller declared nothing. Login treats
	// it as "no role check"; anything that stores a role must reject it.
	RoleUnset Role = ""
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleGuest:
		return RoleGuest, nil
	case RoleUnset:
		return RoleUnset, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleGuest:
		return true
	}
	return false
}
