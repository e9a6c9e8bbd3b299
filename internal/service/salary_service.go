package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aura-hq/staffmanager/internal/config"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrEmployeeNotFound is returned when a salary write references a missing employee.
var ErrEmployeeNotFound = errors.New("referenced employee does not exist")

// PayrollPayload is the queue message consumed by the payroll worker.
type PayrollPayload struct {
	SalaryID int64 `json:"salary_id"`
}

// SalaryService handles salary business logic. Net pay is always
// recomputed server-side, and records entering PROCESSING are handed to
// the payroll worker through the Redis queue.
type SalaryService struct {
	salaryRepo   *repository.SalaryRepository
	employeeRepo *repository.EmployeeRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewSalaryService creates a new SalaryService.
func NewSalaryService(salaryRepo *repository.SalaryRepository, employeeRepo *repository.EmployeeRepository, rdb *redis.Client, log zerolog.Logger) *SalaryService {
	return &SalaryService{
		salaryRepo:   salaryRepo,
		employeeRepo: employeeRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "salary_service").Logger(),
	}
}

// GetByID retrieves a salary record by ID.
func (s *SalaryService) GetByID(ctx context.Context, id int64) (*model.Salary, error) {
	return s.salaryRepo.GetByID(ctx, id)
}

// List retrieves all salary records.
func (s *SalaryService) List(ctx context.Context) ([]model.Salary, error) {
	return s.salaryRepo.List(ctx)
}

// ListByEmployee retrieves one employee's salary history.
func (s *SalaryService) ListByEmployee(ctx context.Context, employeeID int64) ([]model.Salary, error) {
	return s.salaryRepo.ListByEmployee(ctx, employeeID)
}

// ListByPeriod retrieves records for a month/year pair.
func (s *SalaryService) ListByPeriod(ctx context.Context, month, year int) ([]model.Salary, error) {
	return s.salaryRepo.ListByPeriod(ctx, month, year)
}

// Create inserts a new salary record with a derived net amount.
func (s *SalaryService) Create(ctx context.Context, req *model.SalaryRequest) (*model.Salary, error) {
	salary, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.salaryRepo.Create(ctx, salary); err != nil {
		return nil, err
	}
	if salary.Status == model.SalaryProcessing {
		s.enqueue(ctx, salary.ID)
	}
	return s.salaryRepo.GetByID(ctx, salary.ID)
}

// Update rewrites a salary record. A transition into PROCESSING enqueues
// the record for the payroll worker.
func (s *SalaryService) Update(ctx context.Context, id int64, req *model.SalaryRequest) (*model.Salary, error) {
	existing, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	salary, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	salary.ID = id
	if err := s.salaryRepo.Update(ctx, salary); err != nil {
		return nil, err
	}

	if existing.Status != model.SalaryProcessing && salary.Status == model.SalaryProcessing {
		s.enqueue(ctx, id)
	}
	return s.salaryRepo.GetByID(ctx, id)
}

// Delete removes a salary record.
func (s *SalaryService) Delete(ctx context.Context, id int64) error {
	return s.salaryRepo.Delete(ctx, id)
}

// PayslipPDF renders a salary record as a downloadable payslip.
func (s *SalaryService) PayslipPDF(ctx context.Context, id int64) ([]byte, error) {
	salary, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", salary.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", salary.Month))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", salary.Status))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", salary.BaseSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", salary.Bonus))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", salary.Deductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f", salary.NetSalary))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SalaryService) fromRequest(ctx context.Context, req *model.SalaryRequest) (*model.Salary, error) {
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	status, _ := model.ParseSalaryStatus(req.Status) // Validated by binding.
	return &model.Salary{
		EmployeeID: req.EmployeeID,
		BaseSalary: req.BaseSalary,
		Bonus:      req.Bonus,
		Deductions: req.Deductions,
		NetSalary:  model.ComputeNet(req.BaseSalary, req.Bonus, req.Deductions),
		Month:      req.Month,
		Year:       req.Year,
		Status:     status,
		Comments:   req.Comments,
	}, nil
}

// enqueue hands a record to the payroll worker. Failure to enqueue is
// logged, not fatal: the record stays PROCESSING and can be requeued.
func (s *SalaryService) enqueue(ctx context.Context, id int64) {
	raw, _ := json.Marshal(PayrollPayload{SalaryID: id})
	if err := s.rdb.RPush(ctx, config.Key.PayrollQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Int64("salary_id", id).Msg("enqueue payroll item failed")
	}
}
