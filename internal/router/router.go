package router

import (
	"net/http"
	"time"

	"github.com/aura-hq/staffmanager/internal/config"
	"github.com/aura-hq/staffmanager/internal/handler"
	"github.com/aura-hq/staffmanager/internal/middleware"
	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/response"
	"github.com/aura-hq/staffmanager/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Employee   *handler.EmployeeHandler
	Department *handler.DepartmentHandler
	Leave      *handler.LeaveHandler
	Salary     *handler.SalaryHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Unmatched paths get the same envelope as everything else.
	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Rate limiter for the credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)

		// Authenticated profile routes.
		authed := auth.Group("")
		authed.Use(middleware.RequireAuth(authService), middleware.CheckActiveSession(authService))
		{
			authed.GET("/me", handlers.Auth.Me)
			authed.POST("/logout", handlers.Auth.Logout)
		}
	}

	// ─── 2. Protected API (JWT + active session + capabilities) ────────
	api := router.Group("/api")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		// Employee directory is readable by everyone; mutations are admin-only.
		employees := api.Group("/employees")
		{
			employees.GET("",
				middleware.RequireCapability(model.CapDirectoryRead),
				handlers.Employee.List,
			)
			employees.GET("/:id",
				middleware.RequireCapability(model.CapDirectoryRead),
				handlers.Employee.Get,
			)
			employees.POST("",
				middleware.RequireCapability(model.CapEmployeesManage),
				handlers.Employee.Create,
			)
			employees.PUT("/:id",
				middleware.RequireCapability(model.CapEmployeesManage),
				handlers.Employee.Update,
			)
			employees.DELETE("/:id",
				middleware.RequireCapability(model.CapEmployeesManage),
				handlers.Employee.Delete,
			)
		}

		// Department administration.
		departments := api.Group("/departments")
		departments.Use(middleware.RequireCapability(model.CapDepartmentsManage))
		{
			departments.GET("", handlers.Department.List)
			departments.GET("/:id", handlers.Department.Get)
			departments.POST("", handlers.Department.Create)
			departments.PUT("/:id", handlers.Department.Update)
			departments.DELETE("/:id", handlers.Department.Delete)
		}

		// Leave requests. Ownership and decision rules are enforced by
		// the lifecycle manager, not per route.
		leave := api.Group("/leave-requests")
		{
			leave.GET("",
				middleware.RequireCapability(model.CapLeaveReview),
				handlers.Leave.ListAll,
			)
			leave.GET("/my",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.ListMine,
			)
			leave.GET("/my/summary",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.SummaryMine,
			)
			leave.POST("",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.Submit,
			)
			leave.GET("/:id",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.Get,
			)
			leave.PUT("/:id",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.Update,
			)
			leave.DELETE("/:id",
				middleware.RequireCapability(model.CapLeaveRequestOwn),
				handlers.Leave.Withdraw,
			)
		}

		// Salaries. Reads are self-or-admin scoped in the handler.
		salaries := api.Group("/salaries")
		{
			salaries.GET("",
				middleware.RequireCapability(model.CapSalariesManage),
				handlers.Salary.List,
			)
			salaries.POST("",
				middleware.RequireCapability(model.CapSalariesManage),
				handlers.Salary.Create,
			)
			salaries.GET("/month/:month/year/:year",
				middleware.RequireCapability(model.CapSalariesManage),
				handlers.Salary.ListByPeriod,
			)
			salaries.GET("/employee/:id",
				middleware.RequireCapability(model.CapSalaryReadOwn),
				handlers.Salary.ListByEmployee,
			)
			salaries.GET("/:id",
				middleware.RequireCapability(model.CapSalaryReadOwn),
				handlers.Salary.Get,
			)
			salaries.GET("/:id/payslip",
				middleware.RequireCapability(model.CapSalaryReadOwn),
				handlers.Salary.Payslip,
			)
			salaries.PUT("/:id",
				middleware.RequireCapability(model.CapSalariesManage),
				handlers.Salary.Update,
			)
			salaries.DELETE("/:id",
				middleware.RequireCapability(model.CapSalariesManage),
				handlers.Salary.Delete,
			)
		}
	}

	return router
}
