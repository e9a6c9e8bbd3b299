package handler

import (
	"errors"
	"net/http"

	"github.com/aura-hq/staffmanager/internal/middleware"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/response"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/aura-hq/staffmanager/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService     *service.AuthService
	userService     *service.UserService
	employeeService *service.EmployeeService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	userService *service.UserService,
	employeeService *service.EmployeeService,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		userService:     userService,
		employeeService: employeeService,
	}
}

// Login godoc
// POST /api/auth/login
// Validates email + password and returns a bearer token with the identity.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.AuthResponse{
		Token:        token,
		User:         user,
		Capabilities: user.Role.Capabilities(),
	})
}

// Register godoc
// POST /api/auth/register
// Creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req, hash)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrRegistrationRejected)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrRegistrationRejected)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, model.AuthResponse{
		Token:        token,
		User:         user,
		Capabilities: user.Role.Capabilities(),
	})
}

// Me godoc
// GET /api/auth/me
// Returns the caller's identity, capability set and linked employee record.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	// Not every account has an employee record (e.g. the bootstrap admin).
	var employee *model.Employee
	if e, err := h.employeeService.GetByUserID(c.Request.Context(), user.ID); err == nil {
		employee = e
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         user,
		"employee":     employee,
		"capabilities": user.Role.Capabilities(),
	})
}

// Logout godoc
// POST /api/auth/logout
// Clears the caller's active session; outstanding tokens stop working.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ClearSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
