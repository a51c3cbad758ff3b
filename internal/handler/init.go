package handler

import (
	"rental-intake/internal/geocode"
	"rental-intake/internal/model"
	"rental-intake/internal/notify"
	"rental-intake/internal/store"
	"rental-intake/internal/upload"
	"rental-intake/pkg/config"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"go.uber.org/zap"
)

// notifierIface lets tests substitute the dispatch side effect.
type notifierIface interface {
	ApplicationReceived(app *model.Application) error
	StatusChanged(app *model.Application, status model.ApplicationStatus) error
}

// Package-level collaborators, wired once at startup.
var (
	Notifier notifierIface
	Geocoder *geocode.Client
	Uploads  *upload.Policy
	Drafts   *DraftManager
)

// Init wires the handler collaborators from configuration. Must run after
// store.Init.
func Init(cfg *config.Config) {
	Notifier = notify.New(store.Get(), logger.GetLogger())
	Geocoder = geocode.NewClient(&cfg.Geocode)
	Uploads = upload.NewPolicy(cfg.Upload.MaxSizeMB, cfg.Upload.AllowedTypes, cfg.Upload.Dir)
	Drafts = NewDraftManager()
}

// dispatchAsync runs a notification in the background. Submission and
// dispatch are deliberately non-atomic: the write has already succeeded by
// the time this runs, and a dispatch failure is only logged.
func dispatchAsync(fn func(notifierIface) error) {
	if Notifier == nil {
		return
	}
	go func() {
		if err := fn(Notifier); err != nil {
			logger.GetLogger().Error("Notification dispatch failed", zap.Error(err))
			prometheus.RecordNotification("sms", "failed")
			return
		}
		prometheus.RecordNotification("sms", "sent")
	}()
}
