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

// SubmitLead records a contact inquiry from the website.
func SubmitLead(c echo.Context) error {
	log := logger.FromContext(c)

	var lead model.Lead
	if err := c.Bind(&lead); err != nil {
		log.Error("Failed to parse contact inquiry", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if lead.Name == "" || lead.Email == "" || lead.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and message are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.Get().CreateLead(&lead); err != nil {
		log.Error("Failed to save lead", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit inquiry"})
	}
	prometheus.LeadCounter.Inc()

	log.Info("Lead received", zap.String("id", lead.ID), zap.String("subject", lead.Subject))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Inquiry received.",
		"id":      lead.ID,
	})
}

// ListLeads returns every contact inquiry for the admin console.
func ListLeads(c echo.Context) error {
	prometheus.RecordAdminOperation("leads", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	leads, _ := store.Get().ListLeads()
	return c.JSON(http.StatusOK, leads)
}
