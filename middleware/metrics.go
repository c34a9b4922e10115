package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"techsupport_pro_go/metrics"

	"github.com/labstack/echo/v4"
)

// RequestMetrics records the duration of every request by route template
func RequestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			metrics.RecordHTTPRequestDuration(c.Request().Method, path, strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}
