package handler

import (
	"net/http"
	"time"

	"rental-intake/internal/model"
	"rental-intake/internal/store"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetSettings returns the messaging gateway configuration.
func GetSettings(c echo.Context) error {
	prometheus.RecordAdminOperation("settings", "get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	settings, _ := store.Get().GetSettings()
	return c.JSON(http.StatusOK, settings)
}

// SaveSettings replaces the messaging gateway configuration.
func SaveSettings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("settings", "save")

	var settings model.SystemSettings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().SaveSettings(&settings); err != nil {
		log.Error("Failed to save settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
	}

	log.Info("System settings saved", zap.Bool("gateway_configured", settings.Configured()))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
