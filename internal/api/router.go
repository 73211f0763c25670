package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fieldserve/fieldservice-system/internal/api/handler"
	"github.com/fieldserve/fieldservice-system/internal/api/middleware"
	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// Deps carries everything the router needs. Services are constructed in main
// so the dispatcher and cron can share them.
type Deps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string

	Auth      ports.AuthService
	Perms     ports.PermissionService
	Customers ports.CustomerService
	Jobs      ports.JobService
	Invoices  ports.InvoiceService
	Schedule  ports.ScheduleService
	Settings  ports.SettingsService

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fieldservice"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	customerHandler := handler.NewCustomerHandler(deps.Customers)
	jobHandler := handler.NewJobHandler(deps.Jobs, deps.Auth)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)
	calendarHandler := handler.NewCalendarHandler(deps.Schedule, deps.Settings, deps.Auth)
	functionHandler := handler.NewFunctionHandler(deps.Schedule)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	userHandler := handler.NewUserHandler(deps.Perms, deps.Auth)

	gate := func(permission string, opts ...middleware.GateOption) echo.MiddlewareFunc {
		return middleware.RequirePermission(deps.Perms, permission, opts...)
	}

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/me/permissions", userHandler.Me)
	v1.PUT("/me/timezone", userHandler.UpdateTimezone)

	v1.GET("/customers", customerHandler.List, gate(domain.PermViewCustomers))
	v1.GET("/customers/:id", customerHandler.Get, gate(domain.PermViewCustomers))
	v1.POST("/customers", customerHandler.Create, gate(domain.PermEditCustomers))
	v1.PUT("/customers/:id", customerHandler.Update, gate(domain.PermEditCustomers))
	v1.DELETE("/customers/:id", customerHandler.Delete, gate(domain.PermEditCustomers))

	v1.GET("/jobs", jobHandler.List, gate(domain.PermViewJobs))
	v1.GET("/jobs/:id", jobHandler.Get, gate(domain.PermViewJobs))
	v1.POST("/jobs", jobHandler.Create, gate(domain.PermEditJobs))
	v1.PUT("/jobs/:id", jobHandler.Update, gate(domain.PermEditJobs))
	v1.DELETE("/jobs/:id", jobHandler.Delete, gate(domain.PermEditJobs))
	v1.POST("/jobs/:id/transition", jobHandler.Transition, gate(domain.PermEditJobs))

	v1.GET("/calendar", calendarHandler.List, gate(domain.PermViewCalendar))
	v1.GET("/calendar/feed.ics", calendarHandler.Feed, gate(domain.PermViewCalendar))

	v1.GET("/invoices", invoiceHandler.List, gate(domain.PermViewInvoices))
	v1.GET("/invoices/export", invoiceHandler.Export, gate(domain.PermViewInvoices))
	v1.GET("/invoices/:id", invoiceHandler.Get, gate(domain.PermViewInvoices))
	v1.POST("/invoices", invoiceHandler.Create,
		gate(domain.PermEditInvoices, middleware.WithDeniedMessage("invoice editing requires billing access")))
	v1.POST("/invoices/:id/transition", invoiceHandler.Transition,
		gate(domain.PermEditInvoices, middleware.WithDeniedMessage("invoice editing requires billing access")))

	v1.GET("/settings", settingsHandler.Get)
	v1.PUT("/settings", settingsHandler.Update, gate(domain.PermManageSettings))

	v1.PUT("/users/:id/permissions", userHandler.Grant, gate(domain.PermManageUsers))

	v1.POST("/functions/:name", functionHandler.Invoke, gate(domain.PermEditJobs))

	return e
}
