package api

import (
	"net"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sitecraft/website-builder/internal/api/handler"
	"github.com/sitecraft/website-builder/internal/api/middleware"
	"github.com/sitecraft/website-builder/internal/core/ports"

	_ "github.com/sitecraft/website-builder/docs"
)

// Dependencies are the collaborators the HTTP layer needs. They are built in main.
type Dependencies struct {
	Log        zerolog.Logger
	Sessions   ports.SessionService
	Authorizer ports.Authorizer
	Limiter    ports.RateLimiter
	Auth       ports.AuthService
	Roles      ports.RoleService
	Websites   ports.WebsiteService
	Readiness  []handler.DependencyCheck
	// TrustedProxies are the peers whose X-Forwarded-For is believed. Without
	// any, the socket peer address keys anonymous rate limits.
	TrustedProxies []*net.IPNet
	// PreviewPublic serves /preview without authentication.
	PreviewPublic bool
	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also holds the collectors of the metrics package.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Protected routes run authenticate → authorize → rate limit → handle.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))
	e.Use(echomiddleware.CORS())
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "website_builder",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authn := middleware.Auth(d.Sessions)
	admin := middleware.RequireAdmin(d.Authorizer)
	limit := middleware.RateLimit(d.Limiter, d.Log)

	authHandler := handler.NewAuthHandler(d.Auth)
	roleHandler := handler.NewRoleHandler(d.Roles)
	websiteHandler := handler.NewWebsiteHandler(d.Websites)
	generationHandler := handler.NewGenerationHandler(d.Websites)
	previewHandler := handler.NewPreviewHandler(d.Websites, d.PreviewPublic)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup, limit)
	e.POST("/login", authHandler.Login, limit)

	// --- Role administration (Admin only) ---
	roles := e.Group("", authn, admin, limit)
	roles.GET("/roles", roleHandler.List)
	roles.POST("/roles", roleHandler.Create)
	roles.PUT("/roles/:id", roleHandler.Update)
	roles.DELETE("/roles/:id", roleHandler.Delete)
	roles.PUT("/users/:id/role", roleHandler.AssignRole)

	// --- Websites ---
	sites := e.Group("", authn, limit)
	sites.POST("/websites", websiteHandler.Create)
	sites.GET("/websites", websiteHandler.List)
	sites.GET("/websites/:id", websiteHandler.Get)
	sites.PUT("/websites/:id", websiteHandler.Update)
	sites.DELETE("/websites/:id", websiteHandler.Delete)
	sites.POST("/generate-website", generationHandler.Generate)
	sites.PUT("/regenerate-website/:id", generationHandler.Regenerate)

	// --- Preview ---
	previewMW := []echo.MiddlewareFunc{authn, limit}
	if d.PreviewPublic {
		previewMW = []echo.MiddlewareFunc{limit}
	}
	e.GET("/preview/:id", previewHandler.Preview, previewMW...)
	e.GET("/preview/:id/:cache_bust", previewHandler.Preview, previewMW...)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// ipExtractor ignores client-supplied forwarding headers unless the peer is a
// configured proxy. echo's defaults would trust private and loopback ranges.
func ipExtractor(proxies []*net.IPNet) echo.IPExtractor {
	if len(proxies) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, p := range proxies {
		opts = append(opts, echo.TrustIPRange(p))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
