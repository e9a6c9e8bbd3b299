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
)

// LeaveHandler exposes the leave request lifecycle over HTTP. Every
// mutation goes through the LeaveService state machine.
type LeaveHandler struct {
	leaveService *service.LeaveService
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(leaveService *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	return service.Actor{UserID: claims.UserID, Role: claims.Role}
}

// ListAll godoc
// GET /api/leave-requests
// The admin review queue: every request across the company.
func (h *LeaveHandler) ListAll(c *gin.Context) {
	requests, err := h.leaveService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, requests)
}

// ListMine godoc
// GET /api/leave-requests/my
func (h *LeaveHandler) ListMine(c *gin.Context) {
	requests, err := h.leaveService.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusOK, requests)
}

// SummaryMine godoc
// GET /api/leave-requests/my/summary
// Used leave = inclusive day counts summed over APPROVED requests.
func (h *LeaveHandler) SummaryMine(c *gin.Context) {
	summary, err := h.leaveService.SummaryMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// Get godoc
// GET /api/leave-requests/:id
func (h *LeaveHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	lr, err := h.leaveService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusOK, lr)
}

// Submit godoc
// POST /api/leave-requests
// Creates a PENDING request for the caller's employee record.
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req model.CreateLeaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lr, err := h.leaveService.Submit(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusCreated, lr)
}

// Update godoc
// PUT /api/leave-requests/:id
// One endpoint, two shapes per the REST contract: a payload carrying a
// status decides the request (admin); anything else edits the pending
// fields (owner).
func (h *LeaveHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateLeaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var lr *model.LeaveRequest
	if req.Status != "" {
		lr, err = h.leaveService.Decide(c.Request.Context(), actorFrom(c), id, model.LeaveStatus(req.Status), req.Comment)
	} else {
		lr, err = h.leaveService.Edit(c.Request.Context(), actorFrom(c), id, &req)
	}
	if err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusOK, lr)
}

// Withdraw godoc
// DELETE /api/leave-requests/:id
func (h *LeaveHandler) Withdraw(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.leaveService.Withdraw(c.Request.Context(), actorFrom(c), id); err != nil {
		failLeave(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "leave request withdrawn"})
}

// failLeave maps lifecycle errors onto the error taxonomy.
func failLeave(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDateRange)
	case errors.Is(err, service.ErrPastStartDate):
		response.Fail(c, http.StatusBadRequest, response.ErrPastStartDate)
	case errors.Is(err, service.ErrReasonTooShort):
		response.Fail(c, http.StatusBadRequest, response.ErrReasonTooShort)
	case errors.Is(err, service.ErrInvalidLeaveType):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrNotEditable):
		response.Fail(c, http.StatusConflict, response.ErrNotEditable)
	case errors.Is(err, service.ErrAlreadyDecided):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyDecided)
	case errors.Is(err, service.ErrNotReviewer):
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
	case errors.Is(err, service.ErrNoEmployeeRecord):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
