package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller's identity
// in the context.  Handlers read it with IdentityFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if claims.Role != model.RoleAdmin && claims.Role != model.RoleCustomer {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			SetIdentity(c, model.Identity{Username: claims.Username, IsAdmin: claims.Role == model.RoleAdmin})
			return next(c)
		}
	}
}
