package store

import (
	"errors"

	"rental-intake/internal/model"
	"rental-intake/pkg/database"
	"rental-intake/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormStore is the live backend over PostgreSQL. Read failures degrade to
// empty collections; write failures propagate to the caller.
type gormStore struct{}

func (s *gormStore) ListApplications() ([]model.Application, error) {
	var apps []model.Application
	if err := database.GetDB().Order("created_at desc").Find(&apps).Error; err != nil {
		logger.GetLogger().Error("Failed to list applications", zap.Error(err))
		return []model.Application{}, nil
	}
	return apps, nil
}

func (s *gormStore) ListUserApplications(userID, email string) ([]model.Application, error) {
	var apps []model.Application
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at desc").Find(&apps).Error; err != nil {
		logger.GetLogger().Error("Failed to list user applications", zap.String("user_id", userID), zap.Error(err))
		return []model.Application{}, nil
	}
	// Older submissions predate account linking; match those by email.
	if len(apps) == 0 && email != "" {
		if err := database.GetDB().Where("email = ?", email).Order("created_at desc").Find(&apps).Error; err != nil {
			logger.GetLogger().Error("Failed to list applications by email", zap.Error(err))
			return []model.Application{}, nil
		}
	}
	return apps, nil
}

func (s *gormStore) GetApplication(id string) (*model.Application, error) {
	var app model.Application
	if err := database.GetDB().First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *gormStore) CreateApplication(app *model.Application) error {
	prepareApplication(app)
	return database.GetDB().Create(app).Error
}

func (s *gormStore) UpdateApplication(id string, fields map[string]interface{}) error {
	res := database.GetDB().Model(&model.Application{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) UpdateApplicationStatus(id string, status model.ApplicationStatus) error {
	return s.UpdateApplication(id, map[string]interface{}{"status": status})
}

func (s *gormStore) ListVehicles() ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := database.GetDB().Order("make").Find(&vehicles).Error; err != nil {
		logger.GetLogger().Error("Failed to list vehicles", zap.Error(err))
		return []model.Vehicle{}, nil
	}
	return vehicles, nil
}

func (s *gormStore) GetVehicle(id string) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := database.GetDB().First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *gormStore) AddVehicle(v *model.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return database.GetDB().Create(v).Error
}

func (s *gormStore) UpdateVehicle(id string, fields map[string]interface{}) error {
	res := database.GetDB().Model(&model.Vehicle{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteVehicle(id string) error {
	return database.GetDB().Delete(&model.Vehicle{}, "id = ?", id).Error
}

func (s *gormStore) ListProfiles() ([]model.Profile, error) {
	var profiles []model.Profile
	if err := database.GetDB().Find(&profiles).Error; err != nil {
		logger.GetLogger().Error("Failed to list profiles", zap.Error(err))
		return []model.Profile{}, nil
	}
	return profiles, nil
}

func (s *gormStore) GetProfile(uid string) (*model.Profile, error) {
	var p model.Profile
	if err := database.GetDB().First(&p, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) GetProfileByEmail(email string) (*model.Profile, error) {
	var p model.Profile
	if err := database.GetDB().First(&p, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) UpsertProfile(p *model.Profile) error {
	if p.UID == "" {
		p.UID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = model.RoleUser
	}
	return database.GetDB().Save(p).Error
}

func (s *gormStore) UpdateProfileRole(uid string, role model.Role) error {
	res := database.GetDB().Model(&model.Profile{}).Where("uid = ?", uid).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteProfile(uid string) error {
	return database.GetDB().Delete(&model.Profile{}, "uid = ?", uid).Error
}

func (s *gormStore) CreateLead(l *model.Lead) error {
	prepareLead(l)
	return database.GetDB().Create(l).Error
}

func (s *gormStore) ListLeads() ([]model.Lead, error) {
	var leads []model.Lead
	if err := database.GetDB().Order("created_at desc").Find(&leads).Error; err != nil {
		logger.GetLogger().Error("Failed to list leads", zap.Error(err))
		return []model.Lead{}, nil
	}
	return leads, nil
}

func (s *gormStore) ListSmsTemplates() ([]model.SmsTemplate, error) {
	var templates []model.SmsTemplate
	if err := database.GetDB().Find(&templates).Error; err != nil {
		logger.GetLogger().Error("Failed to list SMS templates", zap.Error(err))
		return defaultSmsTemplates(), nil
	}
	if len(templates) == 0 {
		return defaultSmsTemplates(), nil
	}
	return templates, nil
}

func (s *gormStore) SaveSmsTemplate(t *model.SmsTemplate) error {
	return database.GetDB().Save(t).Error
}

func (s *gormStore) ListEmailTemplates() ([]model.EmailTemplate, error) {
	var templates []model.EmailTemplate
	if err := database.GetDB().Find(&templates).Error; err != nil {
		logger.GetLogger().Error("Failed to list email templates", zap.Error(err))
		return defaultEmailTemplates(), nil
	}
	if len(templates) == 0 {
		return defaultEmailTemplates(), nil
	}
	return templates, nil
}

func (s *gormStore) SaveEmailTemplate(t *model.EmailTemplate) error {
	return database.GetDB().Save(t).Error
}

func (s *gormStore) GetSettings() (*model.SystemSettings, error) {
	var settings model.SystemSettings
	if err := database.GetDB().First(&settings, "id = ?", 1).Error; err != nil {
		// Missing or unreadable settings degrade to empty credentials
		return &model.SystemSettings{ID: 1}, nil
	}
	return &settings, nil
}

func (s *gormStore) SaveSettings(settings *model.SystemSettings) error {
	settings.ID = 1
	return database.GetDB().Save(settings).Error
}
