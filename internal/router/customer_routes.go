package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
)

// RegisterCustomer registers booking endpoints under /v1/bookings.  Any
// authenticated caller may book; bookings are scoped to the caller.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id/qr", h.QR)
}
