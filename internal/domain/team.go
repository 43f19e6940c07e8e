package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StaffRole is the privilege level of a team member.
type StaffRole string

const (
	RoleAdmin      StaffRole = "admin"
	RoleSuperAdmin StaffRole = "super_admin"
)

var roleRank = map[StaffRole]int{
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// ParseStaffRole normalises a stored role string. Unknown roles return false.
func ParseStaffRole(value string) (StaffRole, bool) {
	role := StaffRole(strings.ToLower(strings.TrimSpace(value)))
	_, ok := roleRank[role]
	return role, ok
}

// Satisfies reports whether r grants at least the privileges of required.
func (r StaffRole) Satisfies(required StaffRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}

// Label is the human readable role name shown in the admin views.
func (r StaffRole) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super admin"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// TeamMember is a row of the team_members table.
type TeamMember struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Role      StaffRole
	IsActive  bool
	CreatedAt time.Time
}

// FullName joins first and last name, skipping empty parts.
func (m TeamMember) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
}
