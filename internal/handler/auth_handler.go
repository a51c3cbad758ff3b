package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rental-intake/internal/middleware"
	"rental-intake/internal/model"
	"rental-intake/internal/store"
	"rental-intake/pkg/jwtutil"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	profile, err := store.Get().GetProfileByEmail(req.Email)
	if err != nil {
		// First sign-in of the bootstrap account provisions it as the
		// permanent super-admin.
		if errors.Is(err, store.ErrNotFound) && middleware.BootstrapEmail != "" &&
			strings.EqualFold(req.Email, middleware.BootstrapEmail) {
			return bootstrapAdmin(c, req.Email, req.Password)
		}
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication failed. Please check your credentials."})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication failed. Please check your credentials."})
	}

	token, err := jwtutil.GenerateToken(profile.UID, profile.Email, profile.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("email", profile.Email), zap.String("role", string(profile.Role)))
	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"profile": profile,
	})
}

// bootstrapAdmin auto-provisions the configured super-admin account on its
// first sign-in attempt.
func bootstrapAdmin(c echo.Context, email, password string) error {
	log := logger.FromContext(c)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Authentication failed. Please check your credentials."})
	}

	profile := model.Profile{
		Email:        email,
		FullName:     "Super Admin",
		Role:         model.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := store.Get().UpsertProfile(&profile); err != nil {
		log.Error("Failed to provision bootstrap admin", zap.Error(err))
		prometheus.RecordAuthError("bootstrap_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Authentication failed. Please check your credentials."})
	}

	token, err := jwtutil.GenerateToken(profile.UID, profile.Email, profile.Role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Bootstrap admin provisioned", zap.String("email", email))
	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"profile": profile,
	})
}

func Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := store.Get().GetProfileByEmail(req.Email); err == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	profile := model.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         model.RoleUser,
		PasswordHash: string(hash),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.Get().UpsertProfile(&profile); err != nil {
		log.Error("Failed to create profile", zap.Error(err))
		prometheus.RecordAuthError("profile_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", profile.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"profile": profile,
	})
}

// GetProfile returns the caller's account record.
func GetProfile(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	profile, err := store.Get().GetProfile(uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's name and phone.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	uid, _ := c.Get("uid").(string)

	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	profile, err := store.Get().GetProfile(uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}
	profile.FullName = req.FullName
	profile.Phone = req.Phone

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := store.Get().UpsertProfile(profile); err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, profile)
}
