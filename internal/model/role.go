package model

import "fmt"

// Role is the account role driving every authorization decision.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole validates a role string from untrusted input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Capability is a single permitted action or navigable section.
// Views and middleware consume the capability set uniformly instead of
// scattering role comparisons per call site.
type Capability string

const (
	// Administrative sections.
	CapEmployeesManage   Capability = "employees:manage"
	CapDepartmentsManage Capability = "departments:manage"
	CapSalariesManage    Capability = "salaries:manage"
	CapLeaveReview       Capability = "leave:review"

	// Self-scoped sections available to every authenticated user.
	CapLeaveRequestOwn Capability = "leave:request"
	CapDirectoryRead   Capability = "directory:read"
	CapProfileRead     Capability = "profile:read"
	CapSalaryReadOwn   Capability = "salaries:read-own"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapEmployeesManage,
		CapDepartmentsManage,
		CapSalariesManage,
		CapLeaveReview,
		CapLeaveRequestOwn,
		CapDirectoryRead,
		CapProfileRead,
		CapSalaryReadOwn,
	},
	RoleEmployee: {
		CapLeaveRequestOwn,
		CapDirectoryRead,
		CapProfileRead,
		CapSalaryReadOwn,
	},
}

// Capabilities returns the full capability set for the role.
func (r Role) Capabilities() []Capability {
	return roleCapabilities[r]
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
