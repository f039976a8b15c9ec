package utils

import (
	"strings"
)

// Roles carried in the token's role claim.
const (
	RoleOwner  = "owner"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

var ValidUserRoles = map[string]bool{
	RoleOwner:  true,
	RoleStaff:  true,
	RoleViewer: true,
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// An empty role is the owner's.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	if normalized == "" {
		return RoleOwner, true
	}
	return normalized, ValidUserRoles[normalized]
}

// CanWrite reports whether the role may change data.
func CanWrite(role string) bool {
	normalized, ok := ValidateAndNormalizeRole(role)
	return ok && normalized != RoleViewer
}
