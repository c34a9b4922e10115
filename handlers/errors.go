package handlers

import (
	"errors"
	"net/http"

	"techsupport_pro_go/models"
	"techsupport_pro_go/services/i18n"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JSONErrorHandler renders every error that reaches echo as {success:false, message}.
// Client errors keep their message; server errors get a generic one.
func JSONErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := i18n.T(c.Request().Context(), "contact.error.internal")

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if status < http.StatusInternalServerError {
				if m, ok := httpErr.Message.(string); ok && m != "" {
					message = m
				} else {
					message = http.StatusText(status)
				}
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, models.SubmissionResponse{Success: false, Message: message})
		}
		if err != nil {
			log.Error("Failed to write error response", zap.Error(err))
		}
	}
}
