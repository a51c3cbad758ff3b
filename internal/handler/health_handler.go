package handler

import (
	"net/http"

	"rental-intake/internal/store"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service liveness and whether the service is running on
// the local demo backend.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"service":   "rental-intake",
		"demo_mode": store.DemoMode(),
	})
}
