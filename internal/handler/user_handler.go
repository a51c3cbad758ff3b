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

// ListUsers returns every profile for the admin console.
func ListUsers(c echo.Context) error {
	prometheus.RecordAdminOperation("users", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	profiles, _ := store.Get().ListProfiles()
	return c.JSON(http.StatusOK, profiles)
}

// UpdateUserRole promotes or demotes a profile.
func UpdateUserRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("users", "role")

	uid := c.Param("uid")
	var req struct {
		Role model.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil || !req.Role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().UpdateProfileRole(uid, req.Role); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Error("Failed to update role", zap.String("uid", uid), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}

	log.Info("User role updated", zap.String("uid", uid), zap.String("role", string(req.Role)))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteUser removes a profile record.
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("users", "delete")

	uid := c.Param("uid")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := store.Get().DeleteProfile(uid); err != nil {
		log.Error("Failed to delete user", zap.String("uid", uid), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
