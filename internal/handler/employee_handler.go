package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/response"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/aura-hq/staffmanager/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// EmployeeHandler handles employee CRUD and the read-only directory.
type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List godoc
// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, employees)
}

// Get godoc
// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, employee)
}

// Create godoc
// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req model.EmployeeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), &req)
	if err != nil {
		failEmployeeWrite(c, err)
		return
	}

	response.Success(c, http.StatusCreated, employee)
}

// Update godoc
// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EmployeeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		failEmployeeWrite(c, err)
		return
	}

	response.Success(c, http.StatusOK, employee)
}

// Delete godoc
// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "employee deleted"})
}

func failEmployeeWrite(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDepartmentNotFound) {
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
