package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskifye/integration-hub/docs"
	"github.com/taskifye/integration-hub/internal/api/handler"
	"github.com/taskifye/integration-hub/internal/api/middleware"
	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
	"github.com/taskifye/integration-hub/pkg/logger"
)

// Deps is everything the HTTP layer needs. The caller owns the lifetimes of
// the underlying connections.
type Deps struct {
	Log zerolog.Logger

	Auth         ports.AuthService
	Clients      ports.ClientService
	Access       ports.AccessService
	Integrations ports.IntegrationService
	OAuth        ports.OAuthService
	Sms          ports.SmsService

	Health map[string]handler.Pinger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer

	JWTSecret        string
	AuthRequired     bool
	DefaultClientID  string
	DefaultUserEmail string
	AppBaseURL       string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.Middleware(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskifye",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Ops ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	// Anyone may sign up as a viewer; a bearer token, when sent, lets an
	// admin create accounts with other roles.
	e.POST("/auth/register", authHandler.Register, middleware.Auth(d.JWTSecret, false))
	e.POST("/auth/login", authHandler.Login)

	// --- Provider callbacks: no bearer token, authenticated by state/signature ---
	qbHandler := handler.NewQuickBooksHandler(d.OAuth, d.AppBaseURL)
	smsHandler := handler.NewSmsHandler(d.Sms)
	e.GET("/api/quickbooks/callback", qbHandler.Callback)
	e.POST("/api/sms/webhook", smsHandler.Webhook)

	// --- Caller-scoped routes ---
	api := e.Group("/api",
		middleware.Auth(d.JWTSecret, d.AuthRequired),
		middleware.Identity(d.DefaultUserEmail),
	)

	// adminOnly is enforced only when tokens are mandatory; without them
	// there is no role to check.
	adminOnly := func(roles ...string) []echo.MiddlewareFunc {
		if !d.AuthRequired {
			return nil
		}
		return []echo.MiddlewareFunc{middleware.RBAC(roles...)}
	}

	clientHandler := handler.NewClientHandler(d.Access, d.Clients)
	api.GET("/clients", clientHandler.List)
	api.POST("/clients", clientHandler.Create, adminOnly(domain.RoleSuperAdmin, domain.RoleAgencyAdmin)...)
	api.GET("/templates", clientHandler.Templates)

	// --- Tenant-scoped routes ---
	t := api.Group("", middleware.Tenant(d.DefaultClientID, d.Access))

	brandingHandler := handler.NewBrandingHandler(d.Clients)
	t.GET("/branding", brandingHandler.Get)
	t.POST("/branding", brandingHandler.Update)
	t.PATCH("/settings", clientHandler.UpdateSettings)

	integrationHandler := handler.NewIntegrationHandler(d.Integrations)
	t.GET("/settings/integrations", integrationHandler.Status)
	t.PUT("/settings/integrations", integrationHandler.SaveCredentials,
		adminOnly(domain.RoleSuperAdmin, domain.RoleAgencyAdmin, domain.RoleClientAdmin)...)

	debug := t.Group("/debug", adminOnly(domain.RoleSuperAdmin, domain.RoleAgencyAdmin)...)
	debug.GET("/check-integrations", integrationHandler.CheckIntegrations)
	debug.GET("/integrations", integrationHandler.DebugCredentials)
	debug.POST("/integrations", integrationHandler.ClearCache)

	t.GET("/quickbooks/connect", qbHandler.Connect)

	// SMS history is never read for a defaulted tenant.
	sms := api.Group("/sms", middleware.Tenant("", d.Access))
	sms.GET("", smsHandler.List)
	sms.POST("", smsHandler.Send)

	return e
}
