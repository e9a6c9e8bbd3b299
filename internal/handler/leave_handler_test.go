package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aura-hq/staffmanager/internal/middleware"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/aura-hq/staffmanager/internal/validator"
	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// In-memory store/directory pair backing the handler under test.
type memLeaveStore struct {
	nextID   int64
	requests map[int64]*model.LeaveRequest
}

var errMemNotFound = errors.New("no rows")

func (m *memLeaveStore) GetByID(_ context.Context, id int64) (*model.LeaveRequest, error) {
	lr, ok := m.requests[id]
	if !ok {
		return nil, errMemNotFound
	}
	clone := *lr
	return &clone, nil
}

func (m *memLeaveStore) List(_ context.Context) ([]model.LeaveRequest, error) {
	out := make([]model.LeaveRequest, 0, len(m.requests))
	for _, lr := range m.requests {
		out = append(out, *lr)
	}
	return out, nil
}

func (m *memLeaveStore) ListByEmployee(_ context.Context, employeeID int64) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, lr := range m.requests {
		if lr.EmployeeID == employeeID {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *memLeaveStore) Create(_ context.Context, lr *model.LeaveRequest) error {
	m.nextID++
	lr.ID = m.nextID
	clone := *lr
	m.requests[lr.ID] = &clone
	return nil
}

func (m *memLeaveStore) Update(_ context.Context, lr *model.LeaveRequest) error {
	if _, ok := m.requests[lr.ID]; !ok {
		return errMemNotFound
	}
	clone := *lr
	m.requests[lr.ID] = &clone
	return nil
}

func (m *memLeaveStore) Delete(_ context.Context, id int64) error {
	delete(m.requests, id)
	return nil
}

func (m *memLeaveStore) SummaryByEmployee(_ context.Context, employeeID int64) (*model.LeaveSummary, error) {
	return &model.LeaveSummary{EmployeeID: employeeID}, nil
}

type memDirectory struct {
	employees []*model.Employee
}

func (m *memDirectory) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errMemNotFound
}

func (m *memDirectory) GetByUserID(_ context.Context, userID int64) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return nil, errMemNotFound
}

// asUser injects claims the way RequireAuth would.
func asUser(userID int64, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{UserID: userID, Role: role})
	}
}

func newLeaveTestServer() (*gin.Engine, *memLeaveStore) {
	ownerID := int64(10)
	store := &memLeaveStore{requests: map[int64]*model.LeaveRequest{}}
	dir := &memDirectory{employees: []*model.Employee{
		{ID: 1, FirstName: "Jordan", LastName: "Reyes", UserID: &ownerID},
	}}
	h := NewLeaveHandler(service.NewLeaveService(store, dir))

	r := gin.New()
	r.POST("/employee/leave-requests", asUser(ownerID, model.RoleEmployee), h.Submit)
	r.PUT("/employee/leave-requests/:id", asUser(ownerID, model.RoleEmployee), h.Update)
	r.PUT("/admin/leave-requests/:id", asUser(99, model.RoleAdmin), h.Update)
	return r, store
}

func postJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func futureDate(daysAhead int) string {
	return time.Now().AddDate(0, 0, daysAhead).Format(model.DateFormat)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data  json.RawMessage `json:"data"`
		Error interface{}     `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, w.Body)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, w.Body)
	}
}

func TestSubmitThenAdminDecides(t *testing.T) {
	r, _ := newLeaveTestServer()

	w := postJSON(r, http.MethodPost, "/employee/leave-requests", `{
		"type": "VACATION",
		"startDate": "`+futureDate(7)+`",
		"endDate": "`+futureDate(9)+`",
		"reason": "family trip"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d: %s", w.Code, w.Body)
	}

	var created model.LeaveRequest
	decodeData(t, w, &created)
	if created.Status != model.LeavePending || created.Days != 3 {
		t.Fatalf("created = %+v", created)
	}

	// A payload with status decides the request.
	w = postJSON(r, http.MethodPut, "/admin/leave-requests/1", `{
		"status": "REJECTED",
		"comment": "insufficient notice"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("decide: status = %d: %s", w.Code, w.Body)
	}

	var decided model.LeaveRequest
	decodeData(t, w, &decided)
	if decided.Status != model.LeaveRejected || decided.Comment != "insufficient notice" {
		t.Errorf("decided = %+v", decided)
	}

	// Deciding again hits the terminal-state rule.
	w = postJSON(r, http.MethodPut, "/admin/leave-requests/1", `{"status": "APPROVED"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("re-decide: status = %d, want 409: %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "ALREADY_DECIDED") {
		t.Errorf("expected ALREADY_DECIDED code: %s", w.Body)
	}
}

func TestEmployeeCannotDecide(t *testing.T) {
	r, _ := newLeaveTestServer()

	w := postJSON(r, http.MethodPost, "/employee/leave-requests", `{
		"type": "SICK",
		"startDate": "`+futureDate(1)+`",
		"endDate": "`+futureDate(1)+`",
		"reason": "doctor visit"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d: %s", w.Code, w.Body)
	}

	w = postJSON(r, http.MethodPut, "/employee/leave-requests/1", `{"status": "APPROVED"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: %s", w.Code, w.Body)
	}
}

func TestUpdateWithoutStatusEditsPendingFields(t *testing.T) {
	r, store := newLeaveTestServer()

	w := postJSON(r, http.MethodPost, "/employee/leave-requests", `{
		"type": "PERSONAL",
		"startDate": "`+futureDate(5)+`",
		"endDate": "`+futureDate(5)+`",
		"reason": "moving day"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d: %s", w.Code, w.Body)
	}

	w = postJSON(r, http.MethodPut, "/employee/leave-requests/1", `{
		"endDate": "`+futureDate(6)+`"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status = %d: %s", w.Code, w.Body)
	}

	var edited model.LeaveRequest
	decodeData(t, w, &edited)
	if edited.Days != 2 {
		t.Errorf("days after edit = %d, want 2", edited.Days)
	}
	if edited.Status != model.LeavePending {
		t.Errorf("edit must not change status: %s", edited.Status)
	}

	stored, _ := store.GetByID(context.Background(), 1)
	if stored.Reason != "moving day" {
		t.Errorf("reason lost: %q", stored.Reason)
	}
}

func TestSubmitRejectsBadRange(t *testing.T) {
	r, _ := newLeaveTestServer()

	w := postJSON(r, http.MethodPost, "/employee/leave-requests", `{
		"type": "VACATION",
		"startDate": "`+futureDate(9)+`",
		"endDate": "`+futureDate(7)+`",
		"reason": "time travel"
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "INVALID_DATE_RANGE") {
		t.Errorf("expected INVALID_DATE_RANGE code: %s", w.Body)
	}
}
