package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"rental-intake/internal/model"
	"rental-intake/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// localStore is the demo-mode backend: one JSON file per collection under the
// data directory, keyed mock_<collection>.json. It mirrors the live backend
// through the same interface, so callers cannot tell the two apart.
type localStore struct {
	dir string
	mu  sync.Mutex
}

func newLocalStore(dir string) *localStore {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.GetLogger().Error("Failed to create demo data dir", zap.String("dir", dir), zap.Error(err))
	}
	return &localStore{dir: dir}
}

func (s *localStore) path(collection string) string {
	return filepath.Join(s.dir, "mock_"+collection+".json")
}

// read loads a collection file into v. A missing file leaves v untouched.
func (s *localStore) read(collection string, v interface{}) error {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *localStore) write(collection string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(collection), data, 0o644)
}

func (s *localStore) ListApplications() ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := []model.Application{}
	if err := s.read("applications", &apps); err != nil {
		logger.GetLogger().Error("Failed to read applications", zap.Error(err))
		return []model.Application{}, nil
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (s *localStore) ListUserApplications(userID, email string) ([]model.Application, error) {
	all, _ := s.ListApplications()
	mine := []model.Application{}
	for _, a := range all {
		if (userID != "" && a.UserID == userID) || (email != "" && a.Email == email) {
			mine = append(mine, a)
		}
	}
	return mine, nil
}

func (s *localStore) GetApplication(id string) (*model.Application, error) {
	all, _ := s.ListApplications()
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) CreateApplication(app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepareApplication(app)
	apps := []model.Application{}
	if err := s.read("applications", &apps); err != nil {
		return err
	}
	apps = append(apps, *app)
	return s.write("applications", apps)
}

func (s *localStore) UpdateApplication(id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := []model.Application{}
	if err := s.read("applications", &apps); err != nil {
		return err
	}
	for i := range apps {
		if apps[i].ID == id {
			if err := applyFields(&apps[i], fields); err != nil {
				return err
			}
			apps[i].UpdatedAt = time.Now()
			return s.write("applications", apps)
		}
	}
	return ErrNotFound
}

func (s *localStore) UpdateApplicationStatus(id string, status model.ApplicationStatus) error {
	return s.UpdateApplication(id, map[string]interface{}{"status": status})
}

func (s *localStore) ListVehicles() ([]model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vehicles := []model.Vehicle{}
	if err := s.read("vehicles", &vehicles); err != nil {
		logger.GetLogger().Error("Failed to read vehicles", zap.Error(err))
		return []model.Vehicle{}, nil
	}
	// First read seeds the demo fleet, same as the live backend's defaults
	if len(vehicles) == 0 {
		vehicles = defaultFleet()
		if err := s.write("vehicles", vehicles); err != nil {
			logger.GetLogger().Error("Failed to seed vehicles", zap.Error(err))
		}
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].Make < vehicles[j].Make })
	return vehicles, nil
}

func (s *localStore) GetVehicle(id string) (*model.Vehicle, error) {
	vehicles, _ := s.ListVehicles()
	for i := range vehicles {
		if vehicles[i].ID == id {
			return &vehicles[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) AddVehicle(v *model.Vehicle) error {
	// Seed first so an admin add never races the initial fleet
	vehicles, _ := s.ListVehicles()
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	vehicles = append(vehicles, *v)
	return s.write("vehicles", vehicles)
}

func (s *localStore) UpdateVehicle(id string, fields map[string]interface{}) error {
	vehicles, _ := s.ListVehicles()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range vehicles {
		if vehicles[i].ID == id {
			if err := applyFields(&vehicles[i], fields); err != nil {
				return err
			}
			vehicles[i].UpdatedAt = time.Now()
			return s.write("vehicles", vehicles)
		}
	}
	return ErrNotFound
}

func (s *localStore) DeleteVehicle(id string) error {
	vehicles, _ := s.ListVehicles()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := vehicles[:0]
	for _, v := range vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	return s.write("vehicles", kept)
}

// storedProfile is the on-disk shape of a profile. The API model hides the
// credential hash from JSON responses, so persisting through those tags would
// drop it; the collection file carries it under its own key.
type storedProfile struct {
	model.Profile
	PasswordHash string `json:"password_hash,omitempty"`
}

func toStored(p model.Profile) storedProfile {
	return storedProfile{Profile: p, PasswordHash: p.PasswordHash}
}

func (sp storedProfile) profile() model.Profile {
	p := sp.Profile
	p.PasswordHash = sp.PasswordHash
	return p
}

func (s *localStore) readProfiles() []storedProfile {
	profiles := []storedProfile{}
	if err := s.read("profiles", &profiles); err != nil {
		logger.GetLogger().Error("Failed to read profiles", zap.Error(err))
		return []storedProfile{}
	}
	return profiles
}

func (s *localStore) ListProfiles() ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.readProfiles()
	profiles := make([]model.Profile, 0, len(stored))
	for _, sp := range stored {
		profiles = append(profiles, sp.profile())
	}
	return profiles, nil
}

func (s *localStore) GetProfile(uid string) (*model.Profile, error) {
	profiles, _ := s.ListProfiles()
	for i := range profiles {
		if profiles[i].UID == uid {
			p := profiles[i]
			return &p, nil
		}
	}
	// Demo mode answers with a stand-in profile so the status page renders
	return &model.Profile{
		UID:       uid,
		FullName:  "Demo Driver",
		Phone:     "(210) 555-0123",
		Email:     "driver@example.com",
		Role:      model.RoleUser,
		CreatedAt: time.Now(),
	}, nil
}

func (s *localStore) GetProfileByEmail(email string) (*model.Profile, error) {
	profiles, _ := s.ListProfiles()
	for i := range profiles {
		if strings.EqualFold(profiles[i].Email, email) {
			p := profiles[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) UpsertProfile(p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.UID == "" {
		p.UID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = model.RoleUser
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	profiles := s.readProfiles()
	for i := range profiles {
		if profiles[i].UID == p.UID {
			profiles[i] = toStored(*p)
			return s.write("profiles", profiles)
		}
	}
	profiles = append(profiles, toStored(*p))
	return s.write("profiles", profiles)
}

func (s *localStore) UpdateProfileRole(uid string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles := s.readProfiles()
	for i := range profiles {
		if profiles[i].UID == uid {
			profiles[i].Role = role
			profiles[i].UpdatedAt = time.Now()
			return s.write("profiles", profiles)
		}
	}
	return ErrNotFound
}

func (s *localStore) DeleteProfile(uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles := s.readProfiles()
	kept := profiles[:0]
	for _, p := range profiles {
		if p.UID != uid {
			kept = append(kept, p)
		}
	}
	return s.write("profiles", kept)
}

func (s *localStore) CreateLead(l *model.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepareLead(l)
	leads := []model.Lead{}
	if err := s.read("leads", &leads); err != nil {
		return err
	}
	leads = append(leads, *l)
	return s.write("leads", leads)
}

func (s *localStore) ListLeads() ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	leads := []model.Lead{}
	if err := s.read("leads", &leads); err != nil {
		logger.GetLogger().Error("Failed to read leads", zap.Error(err))
		return []model.Lead{}, nil
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt.After(leads[j].CreatedAt) })
	return leads, nil
}

func (s *localStore) ListSmsTemplates() ([]model.SmsTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := []model.SmsTemplate{}
	if err := s.read("sms_templates", &templates); err != nil {
		logger.GetLogger().Error("Failed to read SMS templates", zap.Error(err))
		return defaultSmsTemplates(), nil
	}
	if len(templates) == 0 {
		templates = defaultSmsTemplates()
		if err := s.write("sms_templates", templates); err != nil {
			logger.GetLogger().Error("Failed to seed SMS templates", zap.Error(err))
		}
	}
	return templates, nil
}

func (s *localStore) SaveSmsTemplate(t *model.SmsTemplate) error {
	templates, _ := s.ListSmsTemplates()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range templates {
		if templates[i].ID == t.ID {
			templates[i] = *t
			return s.write("sms_templates", templates)
		}
	}
	templates = append(templates, *t)
	return s.write("sms_templates", templates)
}

func (s *localStore) ListEmailTemplates() ([]model.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := []model.EmailTemplate{}
	if err := s.read("email_templates", &templates); err != nil {
		logger.GetLogger().Error("Failed to read email templates", zap.Error(err))
		return defaultEmailTemplates(), nil
	}
	if len(templates) == 0 {
		templates = defaultEmailTemplates()
		if err := s.write("email_templates", templates); err != nil {
			logger.GetLogger().Error("Failed to seed email templates", zap.Error(err))
		}
	}
	return templates, nil
}

func (s *localStore) SaveEmailTemplate(t *model.EmailTemplate) error {
	templates, _ := s.ListEmailTemplates()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range templates {
		if templates[i].ID == t.ID {
			templates[i] = *t
			return s.write("email_templates", templates)
		}
	}
	templates = append(templates, *t)
	return s.write("email_templates", templates)
}

func (s *localStore) GetSettings() (*model.SystemSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := model.SystemSettings{ID: 1}
	if err := s.read("settings_system", &settings); err != nil {
		logger.GetLogger().Error("Failed to read settings", zap.Error(err))
		return &model.SystemSettings{ID: 1}, nil
	}
	return &settings, nil
}

func (s *localStore) SaveSettings(settings *model.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = 1
	return s.write("settings_system", settings)
}

// applyFields merges a partial update into a record by round-tripping the
// field map through JSON, so the same snake_case keys work against both
// backends.
func applyFields(record interface{}, fields map[string]interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, record)
}
