package repository

import (
	"context"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaveRepository handles leave request data access.
type LeaveRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRepository creates a new LeaveRepository.
func NewLeaveRepository(pool *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{pool: pool}
}

const leaveSelect = `
	SELECT lr.id, lr.employee_id, e.first_name || ' ' || e.last_name,
	       lr.type, lr.start_date, lr.end_date, lr.reason, lr.status,
	       lr.comment, lr.created_at, lr.updated_at
	FROM leave_requests lr
	JOIN employees e ON lr.employee_id = e.id`

func scanLeave(row interface{ Scan(...any) error }) (*model.LeaveRequest, error) {
	lr := &model.LeaveRequest{}
	err := row.Scan(&lr.ID, &lr.EmployeeID, &lr.EmployeeName, &lr.Type,
		&lr.StartDate.Time, &lr.EndDate.Time, &lr.Reason, &lr.Status,
		&lr.Comment, &lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	lr.Days = lr.ComputeDays()
	return lr, nil
}

// GetByID retrieves a leave request by ID.
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	return scanLeave(r.pool.QueryRow(ctx, leaveSelect+` WHERE lr.id = $1`, id))
}

// List retrieves all leave requests, newest first.
func (r *LeaveRepository) List(ctx context.Context) ([]model.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, leaveSelect+` ORDER BY lr.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

// ListByEmployee retrieves one employee's leave requests, newest first.
func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]model.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx,
		leaveSelect+` WHERE lr.employee_id = $1 ORDER BY lr.created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func collectLeaves(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *lr)
	}
	return requests, rows.Err()
}

// Create inserts a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, lr *model.LeaveRequest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO leave_requests (employee_id, type, start_date, end_date, reason, status, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		lr.EmployeeID, lr.Type, lr.StartDate.Time, lr.EndDate.Time, lr.Reason, lr.Status, lr.Comment,
	).Scan(&lr.ID, &lr.CreatedAt, &lr.UpdatedAt)
}

// Update rewrites the mutable fields of a leave request.
func (r *LeaveRepository) Update(ctx context.Context, lr *model.LeaveRequest) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leave_requests
		 SET type = $1, start_date = $2, end_date = $3, reason = $4,
		     status = $5, comment = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7`,
		lr.Type, lr.StartDate.Time, lr.EndDate.Time, lr.Reason, lr.Status, lr.Comment, lr.ID,
	)
	return err
}

// Delete removes a leave request by ID.
func (r *LeaveRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	return err
}

// SummaryByEmployee aggregates used (approved, inclusive day count) and
// pending leave for one employee.
func (r *LeaveRepository) SummaryByEmployee(ctx context.Context, employeeID int64) (*model.LeaveSummary, error) {
	s := &model.LeaveSummary{EmployeeID: employeeID}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(end_date - start_date + 1) FILTER (WHERE status = 'APPROVED'), 0),
		        COUNT(*) FILTER (WHERE status = 'PENDING')
		 FROM leave_requests WHERE employee_id = $1`, employeeID,
	).Scan(&s.UsedDays, &s.PendingCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}
