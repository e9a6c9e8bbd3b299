package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aura-hq/staffmanager/internal/model"
)

// Leave lifecycle errors.
var (
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrPastStartDate    = errors.New("start date is in the past")
	ErrReasonTooShort   = errors.New("reason is too short")
	ErrNotEditable      = errors.New("request is not editable by this caller")
	ErrAlreadyDecided   = errors.New("request has already been decided")
	ErrNotReviewer      = errors.New("caller may not decide requests")
	ErrNoEmployeeRecord = errors.New("no employee record linked to this account")
	ErrInvalidLeaveType = errors.New("invalid leave type")
)

// MinReasonLength is the minimum accepted reason length for a request.
const MinReasonLength = 5

// LeaveStore is the persistence surface the lifecycle manager needs.
type LeaveStore interface {
	GetByID(ctx context.Context, id int64) (*model.LeaveRequest, error)
	List(ctx context.Context) ([]model.LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]model.LeaveRequest, error)
	Create(ctx context.Context, lr *model.LeaveRequest) error
	Update(ctx context.Context, lr *model.LeaveRequest) error
	Delete(ctx context.Context, id int64) error
	SummaryByEmployee(ctx context.Context, employeeID int64) (*model.LeaveSummary, error)
}

// EmployeeDirectory resolves employees for ownership checks.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Employee, error)
}

// Actor identifies the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID int64
	Role   model.Role
}

// LeaveService is the leave request lifecycle manager. All leave
// mutations funnel through it; it owns the PENDING → APPROVED/REJECTED
// state machine, ownership rules and draft validation.
type LeaveService struct {
	store     LeaveStore
	employees EmployeeDirectory
	now       func() time.Time
}

// NewLeaveService creates a new LeaveService.
func NewLeaveService(store LeaveStore, employees EmployeeDirectory) *LeaveService {
	return &LeaveService{store: store, employees: employees, now: time.Now}
}

// draft is a validated leave draft.
type draft struct {
	leaveType model.LeaveType
	start     model.Date
	end       model.Date
	reason    string
}

// validateDraft enforces the invariants every submitted or edited
// request must satisfy: a well-formed type, start <= end, a start date
// no earlier than today, and a meaningful reason.
func (s *LeaveService) validateDraft(typeStr, startStr, endStr, reason string) (*draft, error) {
	leaveType, err := model.ParseLeaveType(typeStr)
	if err != nil {
		return nil, ErrInvalidLeaveType
	}

	start, err := model.ParseDate(startStr)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(endStr)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if start.Before(model.DateOf(s.now())) {
		return nil, ErrPastStartDate
	}
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return nil, ErrReasonTooShort
	}

	return &draft{leaveType: leaveType, start: start, end: end, reason: strings.TrimSpace(reason)}, nil
}

// Submit creates a new PENDING request owned by the actor's employee record.
func (s *LeaveService) Submit(ctx context.Context, actor Actor, req *model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	employee, err := s.employees.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, ErrNoEmployeeRecord
	}

	d, err := s.validateDraft(req.Type, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return nil, err
	}

	lr := &model.LeaveRequest{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		Type:         d.leaveType,
		StartDate:    d.start,
		EndDate:      d.end,
		Reason:       d.reason,
		Status:       model.LeavePending,
	}
	if err := s.store.Create(ctx, lr); err != nil {
		return nil, err
	}
	lr.Days = lr.ComputeDays()
	return lr, nil
}

// Edit replaces the fields of a PENDING request. Only the owning
// employee may edit, and only while the request is PENDING.
func (s *LeaveService) Edit(ctx context.Context, actor Actor, id int64, req *model.UpdateLeaveRequest) (*model.LeaveRequest, error) {
	lr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnedPending(ctx, actor, lr); err != nil {
		return nil, err
	}

	// Partial payload: absent fields keep their current value.
	typeStr := req.Type
	if typeStr == "" {
		typeStr = string(lr.Type)
	}
	startStr := req.StartDate
	if startStr == "" {
		startStr = lr.StartDate.Format(model.DateFormat)
	}
	endStr := req.EndDate
	if endStr == "" {
		endStr = lr.EndDate.Format(model.DateFormat)
	}
	reason := req.Reason
	if reason == "" {
		reason = lr.Reason
	}

	d, err := s.validateDraft(typeStr, startStr, endStr, reason)
	if err != nil {
		return nil, err
	}

	lr.Type = d.leaveType
	lr.StartDate = d.start
	lr.EndDate = d.end
	lr.Reason = d.reason
	if err := s.store.Update(ctx, lr); err != nil {
		return nil, err
	}
	lr.Days = lr.ComputeDays()
	return lr, nil
}

// Withdraw deletes a PENDING request. Same ownership rules as Edit.
func (s *LeaveService) Withdraw(ctx context.Context, actor Actor, id int64) error {
	lr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnedPending(ctx, actor, lr); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// Decide transitions a PENDING request to APPROVED or REJECTED and
// stores the reviewer comment. Admin only; terminal states are final.
func (s *LeaveService) Decide(ctx context.Context, actor Actor, id int64, outcome model.LeaveStatus, comment string) (*model.LeaveRequest, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrNotReviewer
	}

	lr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !lr.Status.CanTransitionTo(outcome) {
		return nil, ErrAlreadyDecided
	}

	lr.Status = outcome
	lr.Comment = comment
	if err := s.store.Update(ctx, lr); err != nil {
		return nil, err
	}
	lr.Days = lr.ComputeDays()
	return lr, nil
}

// Get retrieves a single request. Non-admin actors may only read their own.
func (s *LeaveService) Get(ctx context.Context, actor Actor, id int64) (*model.LeaveRequest, error) {
	lr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin {
		if owned, err := s.owns(ctx, actor, lr); err != nil || !owned {
			return nil, ErrNotEditable
		}
	}
	return lr, nil
}

// ListAll retrieves every leave request (admin review queue).
func (s *LeaveService) ListAll(ctx context.Context) ([]model.LeaveRequest, error) {
	return s.store.List(ctx)
}

// ListMine retrieves the actor's own requests.
func (s *LeaveService) ListMine(ctx context.Context, actor Actor) ([]model.LeaveRequest, error) {
	employee, err := s.employees.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, ErrNoEmployeeRecord
	}
	return s.store.ListByEmployee(ctx, employee.ID)
}

// SummaryMine aggregates the actor's used and pending leave.
func (s *LeaveService) SummaryMine(ctx context.Context, actor Actor) (*model.LeaveSummary, error) {
	employee, err := s.employees.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, ErrNoEmployeeRecord
	}
	return s.store.SummaryByEmployee(ctx, employee.ID)
}

func (s *LeaveService) owns(ctx context.Context, actor Actor, lr *model.LeaveRequest) (bool, error) {
	employee, err := s.employees.GetByID(ctx, lr.EmployeeID)
	if err != nil {
		return false, err
	}
	return employee.UserID != nil && *employee.UserID == actor.UserID, nil
}

func (s *LeaveService) requireOwnedPending(ctx context.Context, actor Actor, lr *model.LeaveRequest) error {
	if lr.Status != model.LeavePending {
		return ErrNotEditable
	}
	owned, err := s.owns(ctx, actor, lr)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotEditable
	}
	return nil
}
