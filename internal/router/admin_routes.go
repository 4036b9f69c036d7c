package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
)

// RegisterAdmin registers catalog management under /v1/admin.  All routes
// require a valid JWT carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, m *handler.MovieHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(),
	)
	g.POST("/movies", m.Add)
}
