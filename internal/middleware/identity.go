package middleware

// identity.go holds the context key JWTAuth uses and the accessor handlers
// call to read the authenticated caller.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

const identityKey = "identity"

// SetIdentity stores the caller on the echo context.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by JWTAuth.  ok is false on
// unauthenticated routes.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok && id.Username != ""
}

// rateSubject names the caller for rate-limit keys.
func rateSubject(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return id.Username
	}
	return "anon"
}
