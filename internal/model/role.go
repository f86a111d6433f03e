package model

import "strings"

// Role is the closed set of platform roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

// roleAliases maps legacy spellings from older data to canonical roles.
var roleAliases = map[string]Role{
	"admin":     RoleAdmin,
	"trainer":   RoleTrainer,
	"student":   RoleStudent,
	"moderator": RoleTrainer,
	"user":      RoleStudent,
}

// ParseRole normalizes any ingested role value to the canonical set.
// Unknown or empty values degrade to student rather than fail.
func ParseRole(value string) Role {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return role
	}
	return RoleStudent
}

func IsValidRole(value string) bool {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin, RoleTrainer, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Label returns the display name used by reports.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleTrainer:
		return "Trainer"
	case RoleStudent:
		return "Student"
	}
	return string(r)
}
