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

// SubmitApplication accepts a completed driver application. The selected
// vehicle is snapshotted into the record; an unknown vehicle id degrades to
// an empty snapshot rather than failing the submission.
func SubmitApplication(c echo.Context) error {
	log := logger.FromContext(c)

	var app model.Application
	if err := c.Bind(&app); err != nil {
		log.Error("Failed to parse application", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Link to the authenticated account when one is present
	if uid, ok := c.Get("uid").(string); ok && app.UserID == "" {
		app.UserID = uid
	}

	snapshotVehicle(&app)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.Get().CreateApplication(&app); err != nil {
		log.Error("Failed to save application", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit application"})
	}
	prometheus.ApplicationSubmittedCounter.Inc()

	log.Info("Application submitted",
		zap.String("id", app.ID),
		zap.String("email", app.Email),
		zap.String("car_requested", app.CarRequested))

	// Best-effort confirmation; a dispatch failure never fails the submission
	dispatchAsync(func(n notifierIface) error { return n.ApplicationReceived(&app) })

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Application submitted.",
		"id":      app.ID,
	})
}

// snapshotVehicle denormalizes the selected vehicle onto the application. A
// missing vehicle leaves the snapshot fields as submitted (usually empty).
func snapshotVehicle(app *model.Application) {
	if app.SelectedVehicleID == "" {
		return
	}
	v, err := store.Get().GetVehicle(app.SelectedVehicleID)
	if err != nil {
		return
	}
	app.CarRequested = v.Label()
	app.WeeklyRent = v.WeeklyRent
	if app.VIN == "" {
		app.VIN = v.VIN
	}
}

// ListMyApplications returns the caller's submissions, falling back to an
// email match for submissions made before the account existed.
func ListMyApplications(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	email, _ := c.Get("email").(string)

	defer prometheus.TrackDBOperation("query")(time.Now())
	apps, _ := store.Get().ListUserApplications(uid, email)
	return c.JSON(http.StatusOK, apps)
}

// ListApplications returns every application for the admin console.
func ListApplications(c echo.Context) error {
	prometheus.RecordAdminOperation("applications", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	apps, _ := store.Get().ListApplications()
	return c.JSON(http.StatusOK, apps)
}

// UpdateApplication applies a partial admin edit to an application.
func UpdateApplication(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("applications", "update")

	id := c.Param("id")
	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	// Server-owned fields stay server-owned
	delete(fields, "id")
	delete(fields, "created_at")

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().UpdateApplication(id, fields); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		log.Error("Failed to update application", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update application"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateApplicationStatus sets the review status. Re-transitioning an already
// approved or rejected application overwrites without a guard.
func UpdateApplicationStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("applications", "status")

	id := c.Param("id")
	var req struct {
		Status model.ApplicationStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().UpdateApplicationStatus(id, req.Status); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		log.Error("Failed to update status", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	log.Info("Application status updated", zap.String("id", id), zap.String("status", string(req.Status)))

	// Approval and rejection notices ride the same best-effort path as the
	// submission confirmation
	if app, err := store.Get().GetApplication(id); err == nil {
		status := req.Status
		dispatchAsync(func(n notifierIface) error { return n.StatusChanged(app, status) })
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
