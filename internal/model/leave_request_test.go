package model

import (
	"testing"
	"time"
)

func TestLeaveStatusTransitions(t *testing.T) {
	cases := []struct {
		from LeaveStatus
		to   LeaveStatus
		ok   bool
	}{
		{LeavePending, LeaveApproved, true},
		{LeavePending, LeaveRejected, true},
		{LeavePending, LeavePending, false},
		{LeaveApproved, LeaveRejected, false},
		{LeaveApproved, LeavePending, false},
		{LeaveRejected, LeaveApproved, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestParseLeaveType(t *testing.T) {
	got, err := ParseLeaveType("ANNUAL")
	if err != nil {
		t.Fatalf("ANNUAL should be accepted: %v", err)
	}
	if got != LeaveVacation {
		t.Errorf("ANNUAL normalized to %s, want VACATION", got)
	}

	if _, err := ParseLeaveType("SABBATICAL"); err == nil {
		t.Error("expected error for unknown type")
	}

	for _, s := range []string{"VACATION", "SICK", "PERSONAL", "OTHER"} {
		if _, err := ParseLeaveType(s); err != nil {
			t.Errorf("%s rejected: %v", s, err)
		}
	}
}

func TestLeaveRequestComputeDays(t *testing.T) {
	lr := &LeaveRequest{
		StartDate: NewDate(2025, time.June, 10),
		EndDate:   NewDate(2025, time.June, 12),
	}
	if got := lr.ComputeDays(); got != 3 {
		t.Errorf("ComputeDays = %d, want 3", got)
	}
}
