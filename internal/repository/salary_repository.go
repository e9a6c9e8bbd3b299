package repository

import (
	"context"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SalaryRepository handles salary record data access.
type SalaryRepository struct {
	pool *pgxpool.Pool
}

// NewSalaryRepository creates a new SalaryRepository.
func NewSalaryRepository(pool *pgxpool.Pool) *SalaryRepository {
	return &SalaryRepository{pool: pool}
}

const salarySelect = `
	SELECT s.id, s.employee_id, e.first_name || ' ' || e.last_name,
	       s.base_salary, s.bonus, s.deductions, s.net_salary,
	       s.month, s.year, s.status, s.comments, s.created_at, s.updated_at
	FROM salaries s
	JOIN employees e ON s.employee_id = e.id`

func scanSalary(row interface{ Scan(...any) error }) (*model.Salary, error) {
	s := &model.Salary{}
	err := row.Scan(&s.ID, &s.EmployeeID, &s.EmployeeName, &s.BaseSalary,
		&s.Bonus, &s.Deductions, &s.NetSalary, &s.Month, &s.Year,
		&s.Status, &s.Comments, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a salary record by ID.
func (r *SalaryRepository) GetByID(ctx context.Context, id int64) (*model.Salary, error) {
	return scanSalary(r.pool.QueryRow(ctx, salarySelect+` WHERE s.id = $1`, id))
}

// List retrieves all salary records, newest period first.
func (r *SalaryRepository) List(ctx context.Context) ([]model.Salary, error) {
	rows, err := r.pool.Query(ctx, salarySelect+` ORDER BY s.month DESC, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSalaries(rows)
}

// ListByEmployee retrieves one employee's salary history.
func (r *SalaryRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]model.Salary, error) {
	rows, err := r.pool.Query(ctx,
		salarySelect+` WHERE s.employee_id = $1 ORDER BY s.month DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSalaries(rows)
}

// ListByPeriod retrieves all salary records for a month/year pair.
func (r *SalaryRepository) ListByPeriod(ctx context.Context, month, year int) ([]model.Salary, error) {
	rows, err := r.pool.Query(ctx,
		salarySelect+` WHERE EXTRACT(MONTH FROM TO_DATE(s.month, 'YYYY-MM')) = $1 AND s.year = $2
		 ORDER BY s.id`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSalaries(rows)
}

func collectSalaries(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.Salary, error) {
	var salaries []model.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		salaries = append(salaries, *s)
	}
	return salaries, rows.Err()
}

// Create inserts a new salary record.
func (r *SalaryRepository) Create(ctx context.Context, s *model.Salary) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO salaries (employee_id, base_salary, bonus, deductions, net_salary,
		                       month, year, status, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		s.EmployeeID, s.BaseSalary, s.Bonus, s.Deductions, s.NetSalary,
		s.Month, s.Year, s.Status, s.Comments,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies an existing salary record.
func (r *SalaryRepository) Update(ctx context.Context, s *model.Salary) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE salaries
		 SET employee_id = $1, base_salary = $2, bonus = $3, deductions = $4,
		     net_salary = $5, month = $6, year = $7, status = $8, comments = $9,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10`,
		s.EmployeeID, s.BaseSalary, s.Bonus, s.Deductions, s.NetSalary,
		s.Month, s.Year, s.Status, s.Comments, s.ID,
	)
	return err
}

// Delete removes a salary record by ID.
func (r *SalaryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	return err
}
