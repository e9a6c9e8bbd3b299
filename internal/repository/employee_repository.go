package repository

import (
	"context"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmployeeRepository handles employee data access.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `id, first_name, last_name, email, phone, department_id, department_name,
	position, hire_date, salary, address, status, user_id, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*model.Employee, error) {
	e := &model.Employee{}
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.DepartmentID, &e.DepartmentName, &e.Position, &e.HireDate.Time,
		&e.Salary, &e.Address, &e.Status, &e.UserID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// GetByUserID retrieves the employee record linked to a user account.
func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID int64) (*model.Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID))
}

// List retrieves all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, email, phone, department_id, department_name,
		                        position, hire_date, salary, address, status, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DepartmentID, e.DepartmentName,
		e.Position, e.HireDate.Time, e.Salary, e.Address, e.Status, e.UserID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies an existing employee.
func (r *EmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE employees
		 SET first_name = $1, last_name = $2, email = $3, phone = $4,
		     department_id = $5, department_name = $6, position = $7,
		     hire_date = $8, salary = $9, address = $10, status = $11,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $12`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DepartmentID, e.DepartmentName,
		e.Position, e.HireDate.Time, e.Salary, e.Address, e.Status, e.ID,
	)
	return err
}

// Delete removes an employee by ID.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}
