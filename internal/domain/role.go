package domain

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleTeacher    Role = "teacher"
	RoleStudent    Role = "student"
)

// Capability names a privileged operation.
type Capability int

const (
	CapQuizCreate Capability = iota + 1
	CapQuizReview
	CapAttemptReview
	CapStatsView
	CapUserManage
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleSuperAdmin: {
		CapQuizCreate:    true,
		CapQuizReview:    true,
		CapAttemptReview: true,
		CapStatsView:     true,
		CapUserManage:    true,
	},
	RoleTeacher: {
		CapQuizCreate:    true,
		CapQuizReview:    true,
		CapAttemptReview: true,
		CapStatsView:     true,
	},
	RoleStudent: {},
}

// ParseRole validates a role string.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if _, ok := roleCapabilities[r]; !ok {
		return "", InvalidInput("unknown role %q", raw)
	}
	return r, nil
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// Authorize returns ErrForbidden unless the principal's role grants c.
func (p Principal) Authorize(c Capability) error {
	if !p.Role.Can(c) {
		return fmt.Errorf("%w: role %q", ErrForbidden, p.Role)
	}
	return nil
}
