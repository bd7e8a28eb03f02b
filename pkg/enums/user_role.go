package enums

import (
	"fmt"
	"strings"
)

// UserRole mirrors the rol values stored by the gestion API.
type UserRole string

const (
	UserRoleClient UserRole = "Cliente"
	UserRoleAdmin  UserRole = "Admin"
)

var validUserRoles = []UserRole{
	UserRoleClient,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsAdmin reports whether the role grants admin-console access.
// Role comparison is case-insensitive everywhere.
func (u UserRole) IsAdmin() bool {
	return strings.EqualFold(string(u), string(UserRoleAdmin))
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if strings.EqualFold(string(candidate), string(u)) {
			return true
		}
	}
	return false
}

// ParseUserRole converts the raw string to UserRole, case-insensitively.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
