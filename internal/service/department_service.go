package service

import (
	"context"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/repository"
)

// DepartmentService handles department business logic.
type DepartmentService struct {
	departmentRepo *repository.DepartmentRepository
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(departmentRepo *repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo}
}

// GetByID retrieves a department by ID.
func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*model.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// List retrieves all departments with their employee counts.
func (s *DepartmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.departmentRepo.List(ctx)
}

// Create inserts a new department.
func (s *DepartmentService) Create(ctx context.Context, req *model.DepartmentRequest) (*model.Department, error) {
	d := &model.Department{Name: req.Name, Description: req.Description}
	if err := s.departmentRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update modifies an existing department.
func (s *DepartmentService) Update(ctx context.Context, id int64, req *model.DepartmentRequest) (*model.Department, error) {
	d := &model.Department{ID: id, Name: req.Name, Description: req.Description}
	if err := s.departmentRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.departmentRepo.GetByID(ctx, id)
}

// Delete removes a department. Deletion is permitted even with employees
// attached; they are detached rather than cascaded.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	return s.departmentRepo.Delete(ctx, id)
}
