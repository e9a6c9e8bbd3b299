package service

import (
	"context"
	"errors"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrDepartmentNotFound is returned when a write references a missing department.
var ErrDepartmentNotFound = errors.New("referenced department does not exist")

// EmployeeService handles employee business logic, including keeping the
// denormalized department name consistent with the department reference.
type EmployeeService struct {
	employeeRepo   *repository.EmployeeRepository
	departmentRepo *repository.DepartmentRepository
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo *repository.EmployeeRepository, departmentRepo *repository.DepartmentRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, departmentRepo: departmentRepo}
}

// GetByID retrieves an employee by ID.
func (s *EmployeeService) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// GetByUserID retrieves the employee record linked to a user account.
func (s *EmployeeService) GetByUserID(ctx context.Context, userID int64) (*model.Employee, error) {
	return s.employeeRepo.GetByUserID(ctx, userID)
}

// List retrieves all employees.
func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	return s.employeeRepo.List(ctx)
}

// Create inserts a new employee from a validated request.
func (s *EmployeeService) Create(ctx context.Context, req *model.EmployeeRequest) (*model.Employee, error) {
	e, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update rewrites an existing employee from a validated request.
func (s *EmployeeService) Update(ctx context.Context, id int64, req *model.EmployeeRequest) (*model.Employee, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.UserID = existing.UserID
	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.employeeRepo.GetByID(ctx, id)
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	return s.employeeRepo.Delete(ctx, id)
}

// fromRequest maps a request to a model, resolving the department
// display name at write time so it can never drift from the reference.
func (s *EmployeeService) fromRequest(ctx context.Context, req *model.EmployeeRequest) (*model.Employee, error) {
	hireDate, err := model.ParseDate(req.HireDate)
	if err != nil {
		return nil, err
	}

	e := &model.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Position:     req.Position,
		HireDate:     hireDate,
		Salary:       req.Salary,
		Address:      req.Address,
		Status:       model.EmployeeStatus(req.Status),
	}

	if req.DepartmentID != nil {
		dept, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		e.DepartmentName = dept.Name
	}

	return e, nil
}
