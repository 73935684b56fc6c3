// internal/domain/models/role.go
package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of roles a principal can hold.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOrganizer:
		return RoleOrganizer, true
	case RoleAttendee:
		return RoleAttendee, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleAttendee
}

// Principal is the authenticated identity performing an action.
type Principal struct {
	ID    primitive.ObjectID
	Role  Role
	Name  string
	Email string
}
