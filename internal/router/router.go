package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/metrics"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/validation"
)

// Deps is everything the HTTP surface needs, built once in main.
type Deps struct {
	Auth      *handler.AuthHandler
	Movies    *handler.MovieHandler
	Bookings  *handler.BookingHandler
	JWTSecret string
	// AuthLimiter guards signup and login.  Nil disables limiting.
	AuthLimiter    echo.MiddlewareFunc
	MetricsEnabled bool
	Log            *zap.Logger
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.NewEchoValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))

	RegisterRoutes(e, d.MetricsEnabled)
	RegisterAuth(e, d.Auth, d.JWTSecret, d.AuthLimiter)
	RegisterPublic(e, d.Movies, d.Bookings)
	RegisterAdmin(e, d.Movies, d.JWTSecret)
	RegisterCustomer(e, d.Bookings, d.JWTSecret)
	return e
}

// RegisterRoutes registers the health check and, when enabled, /metrics.
func RegisterRoutes(e *echo.Echo, metricsEnabled bool) {
	e.GET("/healthz", handler.Health)
	if metricsEnabled {
		metrics.Register()
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
}

// RegisterAuth registers signup and login under /v1/auth and the profile
// endpoint under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers unauthenticated browse endpoints.
func RegisterPublic(e *echo.Echo, m *handler.MovieHandler, b *handler.BookingHandler) {
	e.GET("/v1/movies", m.List)
	e.GET("/v1/movies/:id", m.Get)
	e.GET("/v1/seats", b.Seats)
}
