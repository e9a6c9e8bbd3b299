package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/rs/zerolog"
)

// ErrSessionExpired is returned when the backend answers 401. By then
// the local session has already been cleared, so the caller only needs
// to prompt for a fresh login.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-401 error answer from the backend, decoded from
// the response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, strings.Join(parts, "; "))
}

// envelope mirrors the backend response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// Client talks to the staffmanager API. Every request carries the
// stored bearer token; a 401 tears the stored session down and
// surfaces ErrSessionExpired.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore
	log     zerolog.Logger

	// onExpired runs once per torn-down session, before
	// ErrSessionExpired is returned. Used by the console to print the
	// "logged out" notice exactly where it happened.
	onExpired func()
}

// New creates a Client against baseURL (e.g. "http://localhost:8081").
func New(baseURL string, session *SessionStore, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// OnSessionExpired registers a callback invoked when a 401 terminates
// the stored session.
func (c *Client) OnSessionExpired(fn func()) { c.onExpired = fn }

// Session exposes the underlying store for capability checks.
func (c *Client) Session() *SessionStore { return c.session }

// do performs one API call: marshal body, attach token, send, decode
// envelope into out. It never retries.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The token is no longer honored (expired, or the session was
		// invalidated by a logout or re-login elsewhere). Terminate
		// locally.
		c.log.Debug().Str("path", path).Msg("server rejected token, clearing session")
		_ = c.session.Clear()
		if c.onExpired != nil {
			c.onExpired()
		}
		return ErrSessionExpired
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("malformed response (%d): %w", resp.StatusCode, err)
	}

	if env.Error != nil {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    env.Error.Code,
			Message: env.Error.Message,
			Fields:  env.Error.Fields,
		}
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// download performs a GET for a binary endpoint (no envelope).
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear()
		if c.onExpired != nil {
			c.onExpired()
		}
		return nil, ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}

// ─── Auth ──────────────────────────────────────────────────────────────

// Login authenticates and persists the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: email, Password: password}, &auth)
	if err != nil {
		return nil, err
	}

	if err := c.session.Save(&SessionState{
		Token:        auth.Token,
		User:         auth.User,
		Capabilities: auth.Capabilities,
	}); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &auth); err != nil {
		return nil, err
	}

	if err := c.session.Save(&SessionState{
		Token:        auth.Token,
		User:         auth.User,
		Capabilities: auth.Capabilities,
	}); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Profile is the payload returned by GET /api/auth/me.
type Profile struct {
	User         *model.User        `json:"user"`
	Employee     *model.Employee    `json:"employee"`
	Capabilities []model.Capability `json:"capabilities"`
}

// Me fetches the caller's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Logout invalidates the server-side session, then clears local state.
// The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	if errors.Is(err, ErrSessionExpired) {
		// Already logged out server-side. Mission accomplished.
		return nil
	}
	return err
}

// ─── Employees ─────────────────────────────────────────────────────────

func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	err := c.do(ctx, http.MethodGet, "/api/employees", nil, &out)
	return out, err
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/employees/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, req *model.EmployeeRequest) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, http.MethodPost, "/api/employees", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, req *model.EmployeeRequest) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/employees/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil, nil)
}

// ─── Departments ───────────────────────────────────────────────────────

func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var out []model.Department
	err := c.do(ctx, http.MethodGet, "/api/departments", nil, &out)
	return out, err
}

func (c *Client) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	var out model.Department
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/departments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDepartment(ctx context.Context, req *model.DepartmentRequest) (*model.Department, error) {
	var out model.Department
	if err := c.do(ctx, http.MethodPost, "/api/departments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDepartment(ctx context.Context, id int64, req *model.DepartmentRequest) (*model.Department, error) {
	var out model.Department
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/departments/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDepartment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/departments/%d", id), nil, nil)
}

// ─── Leave Requests ────────────────────────────────────────────────────

func (c *Client) ListLeaveRequests(ctx context.Context) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	err := c.do(ctx, http.MethodGet, "/api/leave-requests", nil, &out)
	return out, err
}

func (c *Client) MyLeaveRequests(ctx context.Context) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	err := c.do(ctx, http.MethodGet, "/api/leave-requests/my", nil, &out)
	return out, err
}

func (c *Client) MyLeaveSummary(ctx context.Context) (*model.LeaveSummary, error) {
	var out model.LeaveSummary
	if err := c.do(ctx, http.MethodGet, "/api/leave-requests/my/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLeaveRequest(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	var out model.LeaveRequest
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/leave-requests/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitLeaveRequest(ctx context.Context, req *model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	var out model.LeaveRequest
	if err := c.do(ctx, http.MethodPost, "/api/leave-requests", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLeaveRequest(ctx context.Context, id int64, req *model.UpdateLeaveRequest) (*model.LeaveRequest, error) {
	var out model.LeaveRequest
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/leave-requests/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideLeaveRequest approves or rejects a pending request.
func (c *Client) DecideLeaveRequest(ctx context.Context, id int64, status model.LeaveStatus, comment string) (*model.LeaveRequest, error) {
	return c.UpdateLeaveRequest(ctx, id, &model.UpdateLeaveRequest{
		Status:  string(status),
		Comment: comment,
	})
}

func (c *Client) WithdrawLeaveRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/leave-requests/%d", id), nil, nil)
}

// ─── Salaries ──────────────────────────────────────────────────────────

func (c *Client) ListSalaries(ctx context.Context) ([]model.Salary, error) {
	var out []model.Salary
	err := c.do(ctx, http.MethodGet, "/api/salaries", nil, &out)
	return out, err
}

func (c *Client) GetSalary(ctx context.Context, id int64) (*model.Salary, error) {
	var out model.Salary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/salaries/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SalariesByEmployee(ctx context.Context, employeeID int64) ([]model.Salary, error) {
	var out []model.Salary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/salaries/employee/%d", employeeID), nil, &out)
	return out, err
}

func (c *Client) SalariesByPeriod(ctx context.Context, month, year int) ([]model.Salary, error) {
	var out []model.Salary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/salaries/month/%d/year/%d", month, year), nil, &out)
	return out, err
}

func (c *Client) CreateSalary(ctx context.Context, req *model.SalaryRequest) (*model.Salary, error) {
	var out model.Salary
	if err := c.do(ctx, http.MethodPost, "/api/salaries", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSalary(ctx context.Context, id int64, req *model.SalaryRequest) (*model.Salary, error) {
	var out model.Salary
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/salaries/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSalary(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/salaries/%d", id), nil, nil)
}

// DownloadPayslip fetches the rendered PDF for a salary record.
func (c *Client) DownloadPayslip(ctx context.Context, id int64) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/api/salaries/%d/payslip", id))
}
