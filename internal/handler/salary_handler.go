package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aura-hq/staffmanager/internal/middleware"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/response"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/aura-hq/staffmanager/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SalaryHandler handles salary administration and self-service reads.
type SalaryHandler struct {
	salaryService   *service.SalaryService
	employeeService *service.EmployeeService
}

// NewSalaryHandler creates a new SalaryHandler.
func NewSalaryHandler(salaryService *service.SalaryService, employeeService *service.EmployeeService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService, employeeService: employeeService}
}

// List godoc
// GET /api/salaries
func (h *SalaryHandler) List(c *gin.Context) {
	salaries, err := h.salaryService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, salaries)
}

// Get godoc
// GET /api/salaries/:id
// Admins read any record; employees only their own.
func (h *SalaryHandler) Get(c *gin.Context) {
	salary, ok := h.loadScoped(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, salary)
}

// Payslip godoc
// GET /api/salaries/:id/payslip
// Renders the record as a PDF download.
func (h *SalaryHandler) Payslip(c *gin.Context) {
	salary, ok := h.loadScoped(c)
	if !ok {
		return
	}

	pdf, err := h.salaryService.PayslipPDF(c.Request.Context(), salary.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="payslip-`+salary.Month+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListByEmployee godoc
// GET /api/salaries/employee/:id
func (h *SalaryHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if !claims.Role.Can(model.CapSalariesManage) && !h.isOwnEmployee(c, employeeID) {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return
	}

	salaries, err := h.salaryService.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, salaries)
}

// ListByPeriod godoc
// GET /api/salaries/month/:month/year/:year
func (h *SalaryHandler) ListByPeriod(c *gin.Context) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	salaries, err := h.salaryService.ListByPeriod(c.Request.Context(), month, year)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, salaries)
}

// Create godoc
// POST /api/salaries
func (h *SalaryHandler) Create(c *gin.Context) {
	var req model.SalaryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	salary, err := h.salaryService.Create(c.Request.Context(), &req)
	if err != nil {
		failSalaryWrite(c, err)
		return
	}

	response.Success(c, http.StatusCreated, salary)
}

// Update godoc
// PUT /api/salaries/:id
func (h *SalaryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SalaryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	salary, err := h.salaryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failSalaryWrite(c, err)
		return
	}

	response.Success(c, http.StatusOK, salary)
}

// Delete godoc
// DELETE /api/salaries/:id
func (h *SalaryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.salaryService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "salary record deleted"})
}

// loadScoped fetches the :id record and enforces self-or-admin access.
func (h *SalaryHandler) loadScoped(c *gin.Context) (*model.Salary, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	salary, err := h.salaryService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return nil, false
	}

	claims := middleware.GetClaims(c)
	if !claims.Role.Can(model.CapSalariesManage) && !h.isOwnEmployee(c, salary.EmployeeID) {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return nil, false
	}

	return salary, true
}

func (h *SalaryHandler) isOwnEmployee(c *gin.Context, employeeID int64) bool {
	claims := middleware.GetClaims(c)
	employee, err := h.employeeService.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		return false
	}
	return employee.ID == employeeID
}

func failSalaryWrite(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmployeeNotFound) {
		response.Fail(c, http.StatusBadRequest, response.ErrNotFound)
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
