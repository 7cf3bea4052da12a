package entity

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. The zero value is not a role.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

var AllRoles = []Role{RoleUser, RoleVendor, RoleAdmin}

// ParseRole accepts exactly one of the known role tags. Anything else,
// including the empty string, is an error rather than a default.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleVendor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
