package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Fixed CORS policy. The forms are posted from a static site whose origin is
// not known to the server, so any origin is allowed.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
	corsMaxAge       = "86400"
)

// CORS sets the fixed CORS headers on every response and answers every
// OPTIONS request with 204 and an empty body, whatever the path and whether
// or not the email provider is configured.
//
// echo's CORSWithConfig is not used: it leaves the headers off requests that
// carry no Origin header and answers preflights only when the route exists.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, corsAllowOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(echo.HeaderAccessControlMaxAge, corsMaxAge)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
