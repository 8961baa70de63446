package api

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eductrack/eductrack-api/docs"
	"github.com/eductrack/eductrack-api/internal/api/handler"
	"github.com/eductrack/eductrack-api/internal/api/middleware"
	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
)

// Deps are the services and settings the router needs.
type Deps struct {
	OTP       ports.OTPService
	Users     ports.UserService
	Tokens    ports.TokenIssuer
	JWTSecret string
	// EchoOTP returns issued codes in send-otp responses. Never set in production.
	EchoOTP      bool
	AllowOrigins []string
	RateRPS      float64
	RateBurst    int
	Health       []handler.Pinger
	Log          zerolog.Logger
	// TrustedProxies are CIDRs whose X-Forwarded-For is believed. Client IPs
	// come from the TCP peer otherwise.
	TrustedProxies []string
	// Metrics receives the HTTP collectors and backs /metrics. Nil means the
	// default registry, where the collectors in internal/metrics live.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds background work started for the router, such as limiter cleanup.
func NewRouter(ctx context.Context, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
	}))
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "eductrack",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.OTP, d.Tokens, d.EchoOTP, d.Log)
	userHandler := handler.NewUserHandler(d.Users, d.Log)
	healthHandler := handler.NewHealthHandler(d.Health...)
	requireAuth := middleware.Auth(d.JWTSecret)

	limiter := middleware.NewRateLimiter(d.RateRPS, d.RateBurst)
	limiter.StartCleanup(ctx)

	// --- Auth routes ---
	auth := e.Group("/api/auth", limiter.Middleware())
	auth.POST("/send-otp", authHandler.SendOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/register-admin", userHandler.RegisterAdmin)
	auth.POST("/register-parent", userHandler.RegisterParent)

	// --- Directory routes ---
	teachers := e.Group("/api/teachers", requireAuth)
	teachers.POST("/create", userHandler.CreateTeacher, middleware.RBAC(domain.RoleAdmin))
	teachers.GET("", userHandler.ListTeachers, middleware.RBAC(domain.RoleAdmin, domain.RoleTeacher))

	e.GET("/api/users/:email", userHandler.GetUser, requireAuth)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// ipExtractor trusts X-Forwarded-For only when it arrives from one of the
// given CIDRs. Invalid entries are skipped; config.Load rejects them first.
func ipExtractor(trusted []string) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		if _, n, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			opts = append(opts, echo.TrustIPRange(n))
		}
	}
	return echo.ExtractIPFromXFFHeader(opts...)
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
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
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

// Shutdown drains in-flight requests within timeout.
func Shutdown(e *echo.Echo, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.Shutdown(ctx)
}
