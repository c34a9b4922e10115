package handlers

import (
	"context"
	"net/http"
	"time"

	"techsupport_pro_go/db"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// HealthHandler reports whether the process and its database are usable
func HealthHandler(c echo.Context) error {
	if db.DB == nil {
		return c.JSON(http.StatusOK, healthResponse{OK: true, Database: "disabled"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		c.Logger().Errorf("Health check database ping failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{OK: false, Database: "error"})
	}
	return c.JSON(http.StatusOK, healthResponse{OK: true, Database: "ok"})
}
