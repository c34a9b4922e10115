package middleware

import (
	"github.com/labstack/echo/v4"
)

// AllowedOrigin writes the configured origin into Access-Control-Allow-Origin
// before the handler runs, so success and error responses both carry it.
// An empty origin is written as an empty header value.
func AllowedOrigin(origin string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)
			return next(c)
		}
	}
}
