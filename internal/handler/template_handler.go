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

// ListSmsTemplates returns the SMS templates, seeding defaults when none
// have been customized.
func ListSmsTemplates(c echo.Context) error {
	prometheus.RecordAdminOperation("sms_templates", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	templates, _ := store.Get().ListSmsTemplates()
	return c.JSON(http.StatusOK, templates)
}

// SaveSmsTemplate creates or replaces an SMS template.
func SaveSmsTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("sms_templates", "save")

	var t model.SmsTemplate
	if err := c.Bind(&t); err != nil || t.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().SaveSmsTemplate(&t); err != nil {
		log.Error("Failed to save SMS template", zap.String("id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save template"})
	}

	return c.JSON(http.StatusOK, t)
}

// ListEmailTemplates returns the email templates, seeding defaults when none
// have been customized.
func ListEmailTemplates(c echo.Context) error {
	prometheus.RecordAdminOperation("email_templates", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	templates, _ := store.Get().ListEmailTemplates()
	return c.JSON(http.StatusOK, templates)
}

// SaveEmailTemplate creates or replaces an email template.
func SaveEmailTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("email_templates", "save")

	var t model.EmailTemplate
	if err := c.Bind(&t); err != nil || t.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().SaveEmailTemplate(&t); err != nil {
		log.Error("Failed to save email template", zap.String("id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save template"})
	}

	return c.JSON(http.StatusOK, t)
}
