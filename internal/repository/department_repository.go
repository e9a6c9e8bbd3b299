package repository

import (
	"context"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DepartmentRepository handles department data access.
type DepartmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository creates a new DepartmentRepository.
func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// GetByID retrieves a department with its current employee count.
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*model.Department, error) {
	d := &model.Department{}
	err := r.pool.QueryRow(ctx,
		`SELECT d.id, d.name, d.description,
		        (SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id),
		        d.created_at, d.updated_at
		 FROM departments d WHERE d.id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.EmployeeCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List retrieves all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.name, d.description,
		        (SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id),
		        d.created_at, d.updated_at
		 FROM departments d ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.EmployeeCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Create inserts a new department.
func (r *DepartmentRepository) Create(ctx context.Context, d *model.Department) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO departments (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		d.Name, d.Description,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// Update modifies an existing department and refreshes the denormalized
// department name carried on its employees.
func (r *DepartmentRepository) Update(ctx context.Context, d *model.Department) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE departments SET name = $1, description = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		d.Name, d.Description, d.ID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE employees SET department_name = $1 WHERE department_id = $2`,
		d.Name, d.ID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes a department. Employees referencing it are detached
// (department_id set NULL by the FK) with their display name cleared.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE employees SET department_name = '' WHERE department_id = $1`, id,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
