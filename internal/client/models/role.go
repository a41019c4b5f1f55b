// Package models defines the domain types the certapply client works with:
// principals, applications, documents, notifications and derived counts.
package models

import "fmt"

// Role classifies a principal. It is a closed set: code that branches on
// Role switches exhaustively so an unknown role is an error, not a silent
// fall-through.
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleReviewer  Role = "REVIEWER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleApplicant, RoleReviewer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleReviewer, RoleAdmin:
		return true
	default:
		return false
	}
}
