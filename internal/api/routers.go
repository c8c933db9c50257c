package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/api/handler"
	"github.com/opsdesk/platform/internal/api/middleware"
	"github.com/opsdesk/platform/internal/core/policy"
	"github.com/opsdesk/platform/internal/core/ports"
	"github.com/opsdesk/platform/internal/gateway"
)

// UsersDeps wires the users service.
type UsersDeps struct {
	Auth   ports.AuthService
	Log    zerolog.Logger
	Checks Checks
}

// NewUsersRouter registers the registration, login and identity routes.
func NewUsersRouter(d UsersDeps) *echo.Echo {
	e := newServer("users", d.Log, d.Checks)

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Auth)
	requireAuth := middleware.Auth(d.Auth)

	// --- Auth routes ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)

	// --- User routes (bearer token required) ---
	users := e.Group("/v1/users", requireAuth)
	users.GET("/me", userHandler.Me)
	users.PATCH("/:id/status", userHandler.SetStatus, middleware.RequireAdmin())

	return e
}

// OrdersDeps wires the orders service. Auth only needs to resolve tokens.
type OrdersDeps struct {
	Auth   ports.Authenticator
	Orders ports.OrderService
	Log    zerolog.Logger
	Checks Checks
}

func NewOrdersRouter(d OrdersDeps) *echo.Echo {
	e := newServer("orders", d.Log, d.Checks)

	orderHandler := handler.NewOrderHandler(d.Orders)

	orders := e.Group("/v1/orders", middleware.Auth(d.Auth))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)

	return e
}

// ManagerDeps wires the business-manager service, which keeps its own
// credential store.
type ManagerDeps struct {
	Auth       ports.AuthService
	Projects   ports.ProjectService
	Tasks      ports.TaskService
	Authorizer policy.Authorizer
	Log        zerolog.Logger
	Checks     Checks
}

func NewManagerRouter(d ManagerDeps) *echo.Echo {
	e := newServer("manager", d.Log, d.Checks)

	authz := d.Authorizer
	if authz == nil {
		authz = policy.ActiveOnly{}
	}

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Auth)
	projectHandler := handler.NewProjectHandler(d.Projects, d.Tasks)
	requireAuth := middleware.Auth(d.Auth)
	can := func(capability policy.Capability) echo.MiddlewareFunc {
		return middleware.RequireCapability(authz, capability)
	}

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/users/me", userHandler.Me, requireAuth)

	v1 := e.Group("/v1", requireAuth)
	v1.POST("/projects", projectHandler.CreateProject, can(policy.CapProjectsWrite))
	v1.GET("/projects", projectHandler.ListProjects, can(policy.CapProjectsRead))
	v1.POST("/tasks", projectHandler.CreateTask, can(policy.CapTasksWrite))
	v1.GET("/tasks", projectHandler.ListTasks, can(policy.CapTasksRead))

	return e
}

// GatewayDeps wires the API gateway.
type GatewayDeps struct {
	Proxy *gateway.Proxy
	Log   zerolog.Logger
}

// NewGatewayRouter serves the operational routes locally and forwards
// everything else through the proxy.
func NewGatewayRouter(d GatewayDeps) *echo.Echo {
	e := newServer("gateway", d.Log, nil)
	e.Any("/*", d.Proxy.Handle)
	return e
}
