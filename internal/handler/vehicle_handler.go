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

// ListAvailableVehicles returns the fleet cars the application wizard can
// offer, which is only those currently available.
func ListAvailableVehicles(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())
	vehicles, _ := store.Get().ListVehicles()

	available := []model.Vehicle{}
	for _, v := range vehicles {
		if v.Status == model.VehicleAvailable {
			available = append(available, v)
		}
	}
	return c.JSON(http.StatusOK, available)
}

// ListVehicles returns the whole fleet for the admin console.
func ListVehicles(c echo.Context) error {
	prometheus.RecordAdminOperation("fleet", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	vehicles, _ := store.Get().ListVehicles()
	return c.JSON(http.StatusOK, vehicles)
}

// AddVehicle creates a fleet car.
func AddVehicle(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("fleet", "create")

	var v model.Vehicle
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if v.Make == "" || v.Model == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "make and model are required"})
	}
	if v.Status == "" {
		v.Status = model.VehicleAvailable
	}
	if !v.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle status"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.Get().AddVehicle(&v); err != nil {
		log.Error("Failed to add vehicle", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add vehicle"})
	}

	log.Info("Vehicle added", zap.String("id", v.ID), zap.String("make", v.Make), zap.String("model", v.Model))
	return c.JSON(http.StatusCreated, v)
}

// UpdateVehicle applies a partial edit to a fleet car. Status transitions
// are administrator-driven only.
func UpdateVehicle(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("fleet", "update")

	id := c.Param("id")
	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	delete(fields, "id")
	delete(fields, "created_at")

	if raw, ok := fields["status"].(string); ok && !model.VehicleStatus(raw).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().UpdateVehicle(id, fields); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		log.Error("Failed to update vehicle", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update vehicle"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteVehicle removes a fleet car.
func DeleteVehicle(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("fleet", "delete")

	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.Get().DeleteVehicle(id); err != nil {
		log.Error("Failed to delete vehicle", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete vehicle"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
