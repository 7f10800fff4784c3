package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/leadpoint/site-api/docs"
	"github.com/leadpoint/site-api/internal/api/handler"
	"github.com/leadpoint/site-api/internal/api/middleware"
	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
	"github.com/leadpoint/site-api/internal/infrastructure/http/handlers"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

const (
	loginBurst       = 5
	loginLimiterTTL  = 15 * time.Minute
	metricsSubsystem = "http"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Sessions *session.Manager
	Auth     ports.AuthService
	Articles ports.ArticleService
	Jobs     ports.JobService
	// Database backs the readiness probe.
	Database handlers.Pinger
	// Redis is optional; nil reports the dependency as disabled.
	Redis *redis.Client
	// LoginRatePerSec limits login requests per client IP. Zero disables it.
	LoginRatePerSec float64
	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: d.Registerer,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Recover())

	// --- Ops routes ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Database, d.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Middleware chains ---
	optionalSession := middleware.OptionalSession(d.Sessions)
	requireSession := middleware.RequireSession(d.Sessions)
	canEdit := []echo.MiddlewareFunc{
		requireSession,
		middleware.RequireRole(domain.RoleSuperAdmin),
		middleware.RequirePasswordRotated(d.Auth),
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions)
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login, loginRateLimiter(d.LoginRatePerSec)...)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session, requireSession)
	auth.POST("/password", authHandler.ChangePassword, requireSession)

	// --- Article routes ---
	articleHandler := handler.NewArticleHandler(d.Articles)
	articles := e.Group("/api/articles")
	articles.GET("", articleHandler.List, optionalSession)
	articles.GET("/:id", articleHandler.Get, optionalSession)
	articles.POST("", articleHandler.Create, canEdit...)
	articles.PUT("/:id", articleHandler.Update, canEdit...)
	articles.DELETE("/:id", articleHandler.Delete, canEdit...)

	// --- Job routes ---
	jobHandler := handler.NewJobHandler(d.Jobs)
	jobs := e.Group("/api/jobs")
	jobs.GET("", jobHandler.List, optionalSession)
	jobs.GET("/:id", jobHandler.Get, optionalSession)
	jobs.POST("", jobHandler.Create, canEdit...)
	jobs.PUT("/:id", jobHandler.Update, canEdit...)
	jobs.DELETE("/:id", jobHandler.Delete, canEdit...)

	return e
}

// requestLogger writes one zerolog line per request. Errors are rendered
// here so outer middleware sees the final status code.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loginRateLimiter throttles login attempts per client IP on top of the
// per-account lockout.
func loginRateLimiter(perSec float64) []echo.MiddlewareFunc {
	if perSec <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSec),
		Burst:     loginBurst,
		ExpiresIn: loginLimiterTTL,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return domain.ErrTooManyAttempts
		},
	})}
}
