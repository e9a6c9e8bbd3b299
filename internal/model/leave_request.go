package model

import (
	"fmt"
	"time"
)

// LeaveType classifies a leave request. VACATION is the canonical name;
// legacy clients that still send "ANNUAL" are normalized on input.
type LeaveType string

const (
	LeaveVacation LeaveType = "VACATION"
	LeaveSick     LeaveType = "SICK"
	LeavePersonal LeaveType = "PERSONAL"
	LeaveOther    LeaveType = "OTHER"
)

// ParseLeaveType validates a leave type string, folding the legacy
// "ANNUAL" spelling into VACATION.
func ParseLeaveType(s string) (LeaveType, error) {
	if s == "ANNUAL" {
		return LeaveVacation, nil
	}
	switch LeaveType(s) {
	case LeaveVacation, LeaveSick, LeavePersonal, LeaveOther:
		return LeaveType(s), nil
	}
	return "", fmt.Errorf("unknown leave type %q", s)
}

// LeaveStatus is the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// CanTransitionTo reports whether a status change is a legal lifecycle
// transition. APPROVED and REJECTED are terminal.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	if s != LeavePending {
		return false
	}
	return next == LeaveApproved || next == LeaveRejected
}

// LeaveRequest is a request for time off. It is created PENDING, may be
// edited or withdrawn by its owner while PENDING, and is decided once
// by an admin.
type LeaveRequest struct {
	ID           int64       `json:"id"`
	EmployeeID   int64       `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	Type         LeaveType   `json:"type"`
	StartDate    Date        `json:"startDate"`
	EndDate      Date        `json:"endDate"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	Comment      string      `json:"comment,omitempty"`
	Days         int         `json:"days"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ComputeDays returns the inclusive day count of the requested range.
func (lr *LeaveRequest) ComputeDays() int {
	return lr.StartDate.DaysUntil(lr.EndDate)
}

// CreateLeaveRequest is the payload for submitting a new request.
type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"required"`
}

// UpdateLeaveRequest is the payload for PUT /api/leave-requests/{id}.
// Owners send field edits while the request is PENDING; admins send a
// status (+ optional comment) to decide it. The two shapes share one
// endpoint per the REST contract.
type UpdateLeaveRequest struct {
	Type      string `json:"type" binding:"omitempty"`
	StartDate string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"omitempty"`
	Status    string `json:"status" binding:"omitempty,oneof=APPROVED REJECTED"`
	Comment   string `json:"comment" binding:"omitempty,max=500"`
}

// LeaveSummary aggregates an employee's approved time off.
type LeaveSummary struct {
	EmployeeID   int64 `json:"employeeId"`
	UsedDays     int   `json:"usedDays"`
	PendingCount int   `json:"pendingCount"`
}
