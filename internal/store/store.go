// Package store is the persistence facade. Every read and write in the
// service goes through the Store interface; callers never learn whether the
// live PostgreSQL backend or the local demo store served the request.
package store

import (
	"errors"
	"time"

	"rental-intake/internal/model"
	"rental-intake/pkg/config"
	"rental-intake/pkg/database"
	"rental-intake/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned by single-record lookups and targeted mutations
// when no record matches.
var ErrNotFound = errors.New("store: record not found")

// Store is the persistence facade shared by both backends.
type Store interface {
	// Applications
	ListApplications() ([]model.Application, error)
	ListUserApplications(userID, email string) ([]model.Application, error)
	GetApplication(id string) (*model.Application, error)
	CreateApplication(app *model.Application) error
	UpdateApplication(id string, fields map[string]interface{}) error
	UpdateApplicationStatus(id string, status model.ApplicationStatus) error

	// Fleet
	ListVehicles() ([]model.Vehicle, error)
	GetVehicle(id string) (*model.Vehicle, error)
	AddVehicle(v *model.Vehicle) error
	UpdateVehicle(id string, fields map[string]interface{}) error
	DeleteVehicle(id string) error

	// Profiles
	ListProfiles() ([]model.Profile, error)
	GetProfile(uid string) (*model.Profile, error)
	GetProfileByEmail(email string) (*model.Profile, error)
	UpsertProfile(p *model.Profile) error
	UpdateProfileRole(uid string, role model.Role) error
	DeleteProfile(uid string) error

	// Leads (append-only)
	CreateLead(l *model.Lead) error
	ListLeads() ([]model.Lead, error)

	// Message templates
	ListSmsTemplates() ([]model.SmsTemplate, error)
	SaveSmsTemplate(t *model.SmsTemplate) error
	ListEmailTemplates() ([]model.EmailTemplate, error)
	SaveEmailTemplate(t *model.EmailTemplate) error

	// Settings singleton
	GetSettings() (*model.SystemSettings, error)
	SaveSettings(s *model.SystemSettings) error
}

var (
	active   Store
	demoMode bool
)

// Init selects and initializes the persistence backend. Selection is an
// explicit configuration decision: "postgres" and "local" are fixed, "auto"
// uses PostgreSQL when a database host is configured and reachable and falls
// back to the local demo store otherwise.
func Init(cfg *config.Config) error {
	log := logger.GetLogger()

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := database.InitDB(cfg); err != nil {
			return err
		}
		active, demoMode = &gormStore{}, false

	case config.DriverLocal:
		active, demoMode = newLocalStore(cfg.Storage.DataDir), true

	case config.DriverAuto:
		if cfg.DB.Host != "" {
			if err := database.InitDB(cfg); err == nil {
				active, demoMode = &gormStore{}, false
				break
			} else {
				log.Warn("Database unreachable, falling back to local demo store", zap.Error(err))
			}
		}
		active, demoMode = newLocalStore(cfg.Storage.DataDir), true

	default:
		return errors.New("store: unknown storage driver " + cfg.Storage.Driver)
	}

	if demoMode {
		log.Info("Persistence running in demo mode", zap.String("data_dir", cfg.Storage.DataDir))
	} else {
		log.Info("Persistence backed by PostgreSQL", zap.String("db_name", cfg.DB.DBName))
	}
	return nil
}

// Get returns the active store.
func Get() Store {
	return active
}

// DemoMode reports whether the local fallback backend is serving requests.
func DemoMode() bool {
	return demoMode
}

// Use swaps in a specific backend, bypassing Init.
func Use(s Store, demo bool) {
	active, demoMode = s, demo
}

// prepareApplication fills in the server-owned fields of a new submission.
// Status is forced to pending regardless of what the client sent.
func prepareApplication(app *model.Application) {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	app.Status = model.StatusPending
	if app.Source == "" {
		app.Source = "organic"
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	app.UpdatedAt = app.CreatedAt
}

// prepareLead fills in the server-owned fields of a new inquiry.
func prepareLead(l *model.Lead) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Source == "" {
		l.Source = "website_contact"
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
}
