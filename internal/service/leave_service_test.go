package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aura-hq/staffmanager/internal/model"
)

// fakeLeaveStore keeps requests in a map, in insertion order.
type fakeLeaveStore struct {
	nextID   int64
	requests map[int64]*model.LeaveRequest
	order    []int64
}

func newFakeLeaveStore() *fakeLeaveStore {
	return &fakeLeaveStore{nextID: 1, requests: map[int64]*model.LeaveRequest{}}
}

var errFakeNotFound = errors.New("no rows")

func (f *fakeLeaveStore) GetByID(_ context.Context, id int64) (*model.LeaveRequest, error) {
	lr, ok := f.requests[id]
	if !ok {
		return nil, errFakeNotFound
	}
	clone := *lr
	return &clone, nil
}

func (f *fakeLeaveStore) List(_ context.Context) ([]model.LeaveRequest, error) {
	out := make([]model.LeaveRequest, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.requests[id])
	}
	return out, nil
}

func (f *fakeLeaveStore) ListByEmployee(_ context.Context, employeeID int64) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, id := range f.order {
		if f.requests[id].EmployeeID == employeeID {
			out = append(out, *f.requests[id])
		}
	}
	return out, nil
}

func (f *fakeLeaveStore) Create(_ context.Context, lr *model.LeaveRequest) error {
	lr.ID = f.nextID
	f.nextID++
	clone := *lr
	f.requests[lr.ID] = &clone
	f.order = append(f.order, lr.ID)
	return nil
}

func (f *fakeLeaveStore) Update(_ context.Context, lr *model.LeaveRequest) error {
	if _, ok := f.requests[lr.ID]; !ok {
		return errFakeNotFound
	}
	clone := *lr
	f.requests[lr.ID] = &clone
	return nil
}

func (f *fakeLeaveStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.requests[id]; !ok {
		return errFakeNotFound
	}
	delete(f.requests, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeLeaveStore) SummaryByEmployee(_ context.Context, employeeID int64) (*model.LeaveSummary, error) {
	summary := &model.LeaveSummary{EmployeeID: employeeID}
	for _, id := range f.order {
		lr := f.requests[id]
		if lr.EmployeeID != employeeID {
			continue
		}
		switch lr.Status {
		case model.LeaveApproved:
			summary.UsedDays += lr.ComputeDays()
		case model.LeavePending:
			summary.PendingCount++
		}
	}
	return summary, nil
}

// fakeDirectory resolves employees by ID and linked user ID.
type fakeDirectory struct {
	employees []*model.Employee
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeDirectory) GetByUserID(_ context.Context, userID int64) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return nil, errFakeNotFound
}

// Fixture: user 10 owns employee 1; user 20 owns employee 2; user 99
// has no employee record. "Today" is pinned to 2025-06-01.
func newLeaveFixture() (*LeaveService, *fakeLeaveStore) {
	uid1, uid2 := int64(10), int64(20)
	dir := &fakeDirectory{employees: []*model.Employee{
		{ID: 1, FirstName: "Jordan", LastName: "Reyes", UserID: &uid1},
		{ID: 2, FirstName: "Priya", LastName: "Nair", UserID: &uid2},
	}}
	store := newFakeLeaveStore()

	svc := NewLeaveService(store, dir)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	}
	return svc, store
}

var (
	owner    = Actor{UserID: 10, Role: model.RoleEmployee}
	other    = Actor{UserID: 20, Role: model.RoleEmployee}
	reviewer = Actor{UserID: 30, Role: model.RoleAdmin}
)

func submitValid(t *testing.T, svc *LeaveService, actor Actor) *model.LeaveRequest {
	t.Helper()
	lr, err := svc.Submit(context.Background(), actor, &model.CreateLeaveRequest{
		Type:      "VACATION",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		Reason:    "family trip",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return lr
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc, _ := newLeaveFixture()

	lr := submitValid(t, svc, owner)

	if lr.Status != model.LeavePending {
		t.Errorf("status = %s, want PENDING", lr.Status)
	}
	if lr.Days != 3 {
		t.Errorf("days = %d, want 3 (inclusive)", lr.Days)
	}
	if lr.EmployeeID != 1 {
		t.Errorf("employeeID = %d, want 1", lr.EmployeeID)
	}
	if lr.EmployeeName != "Jordan Reyes" {
		t.Errorf("employeeName = %q", lr.EmployeeName)
	}
}

func TestSubmitNormalizesLegacyType(t *testing.T) {
	svc, _ := newLeaveFixture()

	lr, err := svc.Submit(context.Background(), owner, &model.CreateLeaveRequest{
		Type:      "ANNUAL",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-10",
		Reason:    "long weekend",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if lr.Type != model.LeaveVacation {
		t.Errorf("type = %s, want VACATION", lr.Type)
	}
	if lr.Days != 1 {
		t.Errorf("single-day request: days = %d, want 1", lr.Days)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newLeaveFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  model.CreateLeaveRequest
		want error
	}{
		{
			"end before start",
			model.CreateLeaveRequest{Type: "SICK", StartDate: "2025-06-12", EndDate: "2025-06-10", Reason: "migraine"},
			ErrInvalidDateRange,
		},
		{
			"start in the past",
			model.CreateLeaveRequest{Type: "SICK", StartDate: "2025-05-20", EndDate: "2025-06-10", Reason: "migraine"},
			ErrPastStartDate,
		},
		{
			"reason too short",
			model.CreateLeaveRequest{Type: "SICK", StartDate: "2025-06-10", EndDate: "2025-06-12", Reason: "  ok  "},
			ErrReasonTooShort,
		},
		{
			"unknown type",
			model.CreateLeaveRequest{Type: "GARDENING", StartDate: "2025-06-10", EndDate: "2025-06-12", Reason: "weeding"},
			ErrInvalidLeaveType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, owner, &tc.req); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSubmitStartingTodayIsAllowed(t *testing.T) {
	svc, _ := newLeaveFixture()

	_, err := svc.Submit(context.Background(), owner, &model.CreateLeaveRequest{
		Type:      "SICK",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-01",
		Reason:    "woke up ill",
	})
	if err != nil {
		t.Errorf("same-day start rejected: %v", err)
	}
}

func TestSubmitWithoutEmployeeRecord(t *testing.T) {
	svc, _ := newLeaveFixture()

	unlinked := Actor{UserID: 99, Role: model.RoleEmployee}
	_, err := svc.Submit(context.Background(), unlinked, &model.CreateLeaveRequest{
		Type:      "VACATION",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		Reason:    "family trip",
	})
	if !errors.Is(err, ErrNoEmployeeRecord) {
		t.Errorf("got %v, want ErrNoEmployeeRecord", err)
	}
}

func TestDecideRejectThenFinal(t *testing.T) {
	svc, store := newLeaveFixture()
	ctx := context.Background()

	lr := submitValid(t, svc, owner)

	decided, err := svc.Decide(ctx, reviewer, lr.ID, model.LeaveRejected, "insufficient notice")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != model.LeaveRejected {
		t.Errorf("status = %s, want REJECTED", decided.Status)
	}
	if decided.Comment != "insufficient notice" {
		t.Errorf("comment = %q", decided.Comment)
	}

	// Terminal states cannot be re-decided.
	if _, err := svc.Decide(ctx, reviewer, lr.ID, model.LeaveApproved, ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("second decision: got %v, want ErrAlreadyDecided", err)
	}

	stored, _ := store.GetByID(ctx, lr.ID)
	if stored.Status != model.LeaveRejected {
		t.Errorf("stored status = %s, want REJECTED", stored.Status)
	}
}

func TestDecideRequiresReviewer(t *testing.T) {
	svc, _ := newLeaveFixture()

	lr := submitValid(t, svc, owner)

	_, err := svc.Decide(context.Background(), owner, lr.ID, model.LeaveApproved, "")
	if !errors.Is(err, ErrNotReviewer) {
		t.Errorf("got %v, want ErrNotReviewer", err)
	}
}

func TestEditMergesPartialPayload(t *testing.T) {
	svc, _ := newLeaveFixture()

	lr := submitValid(t, svc, owner)

	edited, err := svc.Edit(context.Background(), owner, lr.ID, &model.UpdateLeaveRequest{
		EndDate: "2025-06-14",
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Days != 5 {
		t.Errorf("days after extension = %d, want 5", edited.Days)
	}
	if edited.Reason != "family trip" {
		t.Errorf("reason lost on partial edit: %q", edited.Reason)
	}
	if edited.Type != model.LeaveVacation {
		t.Errorf("type lost on partial edit: %s", edited.Type)
	}
}

func TestEditRejectedForNonOwner(t *testing.T) {
	svc, _ := newLeaveFixture()

	lr := submitValid(t, svc, owner)

	_, err := svc.Edit(context.Background(), other, lr.ID, &model.UpdateLeaveRequest{Reason: "mine now"})
	if !errors.Is(err, ErrNotEditable) {
		t.Errorf("got %v, want ErrNotEditable", err)
	}
}

func TestEditRejectedAfterDecision(t *testing.T) {
	svc, _ := newLeaveFixture()
	ctx := context.Background()

	lr := submitValid(t, svc, owner)
	if _, err := svc.Decide(ctx, reviewer, lr.ID, model.LeaveApproved, "enjoy"); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	_, err := svc.Edit(ctx, owner, lr.ID, &model.UpdateLeaveRequest{EndDate: "2025-06-20"})
	if !errors.Is(err, ErrNotEditable) {
		t.Errorf("got %v, want ErrNotEditable", err)
	}
}

func TestWithdraw(t *testing.T) {
	svc, store := newLeaveFixture()
	ctx := context.Background()

	lr := submitValid(t, svc, owner)

	if err := svc.Withdraw(ctx, owner, lr.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, err := store.GetByID(ctx, lr.ID); err == nil {
		t.Error("request still present after withdraw")
	}

	// Withdrawing a decided request is refused.
	lr2 := submitValid(t, svc, owner)
	if _, err := svc.Decide(ctx, reviewer, lr2.ID, model.LeaveApproved, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if err := svc.Withdraw(ctx, owner, lr2.ID); !errors.Is(err, ErrNotEditable) {
		t.Errorf("got %v, want ErrNotEditable", err)
	}
}

func TestGetScopesToOwner(t *testing.T) {
	svc, _ := newLeaveFixture()
	ctx := context.Background()

	lr := submitValid(t, svc, owner)

	if _, err := svc.Get(ctx, owner, lr.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.Get(ctx, reviewer, lr.ID); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
	if _, err := svc.Get(ctx, other, lr.ID); !errors.Is(err, ErrNotEditable) {
		t.Errorf("foreign read: got %v, want ErrNotEditable", err)
	}
}

func TestSummaryCountsApprovedDaysAndPending(t *testing.T) {
	svc, _ := newLeaveFixture()
	ctx := context.Background()

	first := submitValid(t, svc, owner) // 3 days
	if _, err := svc.Decide(ctx, reviewer, first.ID, model.LeaveApproved, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	submitValid(t, svc, owner) // stays PENDING
	submitValid(t, svc, other) // someone else's, ignored

	summary, err := svc.SummaryMine(ctx, owner)
	if err != nil {
		t.Fatalf("SummaryMine: %v", err)
	}
	if summary.UsedDays != 3 {
		t.Errorf("usedDays = %d, want 3", summary.UsedDays)
	}
	if summary.PendingCount != 1 {
		t.Errorf("pendingCount = %d, want 1", summary.PendingCount)
	}
}
