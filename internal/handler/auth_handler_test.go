package handler

import (
	"net/http"
	"testing"

	"rental-intake/internal/middleware"
	"rental-intake/internal/model"
	"rental-intake/internal/store"
	"rental-intake/pkg/config"
	"rental-intake/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAuthEnv(t *testing.T) {
	t.Helper()
	createTestEnv(t)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	middleware.BootstrapEmail = "admin@djautofleet.com"
	t.Cleanup(func() { middleware.BootstrapEmail = "" })
}

func TestRegisterAndLogin(t *testing.T) {
	createTestAuthEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"hunter22","full_name":"Jane Doe"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"hunter22"}`)
	require.NoError(t, Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := jwtutil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	createTestAuthEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"hunter22"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"wrong"}`)
	require.NoError(t, Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}

func TestLoginUnknownUser(t *testing.T) {
	createTestAuthEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	require.NoError(t, Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginBootstrapsSuperAdmin(t *testing.T) {
	createTestAuthEnv(t)

	// First sign-in of the configured account provisions it as admin
	c, rec := createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"admin@djautofleet.com","password":"first-password"}`)
	require.NoError(t, Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	claims, err := jwtutil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	profile, err := store.Get().GetProfileByEmail("admin@djautofleet.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, profile.Role)

	// Subsequent sign-ins go through the normal credential check
	c, rec = createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"admin@djautofleet.com","password":"first-password"}`)
	require.NoError(t, Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = createTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"admin@djautofleet.com","password":"other"}`)
	require.NoError(t, Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	createTestAuthEnv(t)

	c, rec := createTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"hunter22"}`)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = createTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"other"}`)
	require.NoError(t, Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
