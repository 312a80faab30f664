package main

import (
	"net/http"
	"time"

	"sally/internal/handlers"
	"sally/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const loginRateLimit = 10

type routeHandlers struct {
	auth          *handlers.AuthHandlers
	tenants       *handlers.TenantHandlers
	alerts        *handlers.AlertHandlers
	drivers       *handlers.DriverHandlers
	vehicles      *handlers.VehicleHandlers
	loads         *handlers.LoadHandlers
	scenarios     *handlers.ScenarioHandlers
	notifications *handlers.NotificationHandlers
	users         *handlers.UserHandlers
	auditLogs     *handlers.AuditLogsHandlers
	integrations  *handlers.IntegrationHandlers
	jobs          *handlers.JobHandlers
	health        *handlers.HealthHandlers
}

func registerRoutes(e *echo.Echo, h routeHandlers, authenticate echo.MiddlewareFunc, limiter middleware.RateLimiter, log *zap.Logger) {
	// Health endpoints (no auth required)
	e.GET("/health", h.health.LivenessCheck)
	e.GET("/health/ready", h.health.ReadinessCheck)

	// API docs
	e.GET("/api", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/api/docs/index.html")
	})
	e.GET("/api/openapi.json", handlers.OpenAPISpec)
	e.GET("/api/docs/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/api/openapi.json")))

	versionMiddleware := middleware.NewVersionMiddleware()
	e.GET("/api/versions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, versionMiddleware.GetSupportedVersions())
	})
	v1 := e.Group("/api/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Authentication routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.auth.Login, middleware.RateLimitByIP(limiter, "login", loginRateLimit, time.Minute, log))
	auth.POST("/refresh", h.auth.Refresh)
	auth.POST("/logout", h.auth.Logout)
	auth.GET("/me", h.auth.Me, authenticate)

	// Public tenant onboarding
	v1.POST("/tenants/register", h.tenants.Register, middleware.RateLimitByIP(limiter, "register", loginRateLimit, time.Hour, log))
	v1.GET("/tenants/check-subdomain/:subdomain", h.tenants.CheckSubdomain)

	protected := v1.Group("", authenticate)

	superAdmin := middleware.RequireRoles(middleware.SuperAdminOnly...)
	tenantAdmins := middleware.RequireRoles(middleware.TenantAdmins...)
	dispatch := middleware.RequireRoles(middleware.DispatchStaff...)

	// Tenant approval (SUPER_ADMIN)
	tenants := protected.Group("/tenants", superAdmin)
	tenants.GET("", h.tenants.ListTenants)
	tenants.GET("/:id", h.tenants.GetTenant)
	tenants.POST("/:id/approve", h.tenants.ApproveTenant)
	tenants.POST("/:id/reject", h.tenants.RejectTenant)
	tenants.GET("/:id/audit-logs", h.tenants.TenantAuditLogs)

	admin := protected.Group("/admin", superAdmin)
	admin.GET("/jobs", h.jobs.ListJobs)
	admin.POST("/jobs/:name/run", h.jobs.RunJob)

	// Alerts: reads for any role, mutations for dispatch staff
	protected.GET("/alerts", h.alerts.ListAlerts)
	protected.GET("/alerts/stream", h.alerts.StreamAlerts)
	protected.GET("/alerts/:id", h.alerts.GetAlert)
	protected.POST("/alerts", h.alerts.CreateAlert, dispatch)
	protected.POST("/alerts/:id/acknowledge", h.alerts.AcknowledgeAlert, dispatch)
	protected.POST("/alerts/:id/resolve", h.alerts.ResolveAlert, dispatch)

	drivers := protected.Group("/drivers", dispatch)
	drivers.GET("", h.drivers.ListDrivers)
	drivers.POST("", h.drivers.CreateDriver)
	drivers.GET("/export", h.drivers.ExportDrivers)
	drivers.GET("/:id", h.drivers.GetDriver)
	drivers.PUT("/:id", h.drivers.UpdateDriver)
	drivers.DELETE("/:id", h.drivers.DeleteDriver)

	vehicles := protected.Group("/vehicles", dispatch)
	vehicles.GET("", h.vehicles.ListVehicles)
	vehicles.POST("", h.vehicles.CreateVehicle)
	vehicles.GET("/:id", h.vehicles.GetVehicle)
	vehicles.PUT("/:id", h.vehicles.UpdateVehicle)
	vehicles.DELETE("/:id", h.vehicles.DeleteVehicle)

	loads := protected.Group("/loads", dispatch)
	loads.GET("", h.loads.ListLoads)
	loads.POST("", h.loads.CreateLoad)
	loads.GET("/:id", h.loads.GetLoad)
	loads.PUT("/:id/status", h.loads.UpdateLoadStatus)
	loads.PUT("/:id/assignment", h.loads.AssignLoad)
	loads.POST("/:id/documents", h.loads.UploadDocument)
	loads.GET("/:id/documents", h.loads.ListDocuments)

	scenarios := protected.Group("/scenarios", dispatch)
	scenarios.GET("", h.scenarios.ListScenarios)
	scenarios.POST("", h.scenarios.CreateScenario)
	scenarios.GET("/:id", h.scenarios.GetScenario)
	scenarios.DELETE("/:id", h.scenarios.DeleteScenario)

	protected.GET("/notifications", h.notifications.ListNotifications)
	protected.POST("/notifications/read-all", h.notifications.MarkAllRead)
	protected.POST("/notifications/:id/read", h.notifications.MarkRead)

	users := protected.Group("/users", tenantAdmins)
	users.GET("", h.users.ListUsers)
	users.POST("/invite", h.users.InviteUser)
	users.POST("/:id/deactivate", h.users.DeactivateUser)

	protected.GET("/audit-logs", h.auditLogs.ListAuditLogs, tenantAdmins)

	integrations := protected.Group("/integrations", tenantAdmins)
	integrations.GET("", h.integrations.ListIntegrations)
	integrations.POST("", h.integrations.CreateIntegration)
	integrations.DELETE("/:id", h.integrations.DeleteIntegration)
	integrations.POST("/:id/test", h.integrations.TestConnection)
	integrations.POST("/:id/sync", h.integrations.Sync)
}
