package model

import "testing"

func TestRoleCapabilities(t *testing.T) {
	admin := RoleAdmin.Capabilities()
	employee := RoleEmployee.Capabilities()

	if len(admin) <= len(employee) {
		t.Errorf("admin capability set (%d) should be larger than employee's (%d)",
			len(admin), len(employee))
	}

	// Admins review leave and manage records.
	for _, c := range []Capability{CapLeaveReview, CapEmployeesManage, CapDepartmentsManage, CapSalariesManage} {
		if !RoleAdmin.Can(c) {
			t.Errorf("ADMIN should hold %s", c)
		}
		if RoleEmployee.Can(c) {
			t.Errorf("EMPLOYEE must not hold %s", c)
		}
	}

	// Both roles keep the self-service capabilities.
	for _, c := range []Capability{CapLeaveRequestOwn, CapDirectoryRead, CapProfileRead, CapSalaryReadOwn} {
		if !RoleAdmin.Can(c) {
			t.Errorf("ADMIN should hold %s", c)
		}
		if !RoleEmployee.Can(c) {
			t.Errorf("EMPLOYEE should hold %s", c)
		}
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("ADMIN"); err != nil {
		t.Errorf("ADMIN rejected: %v", err)
	}
	if _, err := ParseRole("MANAGER"); err == nil {
		t.Error("expected error for unknown role")
	}
}
