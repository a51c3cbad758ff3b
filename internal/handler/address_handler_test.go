package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-intake/internal/geocode"
	"rental-intake/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestGeocoder(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	prev := Geocoder
	Geocoder = geocode.NewClient(&config.GeocodeConfig{
		BaseURL:   srv.URL,
		UserAgent: "test",
		Timeout:   2 * time.Second,
	})
	t.Cleanup(func() { Geocoder = prev })
}

func TestSearchAddress(t *testing.T) {
	createTestEnv(t)
	createTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"display_name":"100, Main Street, San Antonio","address":{"house_number":"100","road":"Main Street","city":"San Antonio","state":"Texas","postcode":"78201"}}]`))
	})

	c, rec := createTestContext(t, http.MethodGet, "/address/search?q=100+main", "")
	require.NoError(t, SearchAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []geocode.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "100 Main Street", body.Results[0].Address.Street)
	assert.Equal(t, "San Antonio", body.Results[0].Address.City)
}

func TestSearchAddressShortQuery(t *testing.T) {
	createTestEnv(t)
	createTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a short query")
	})

	c, rec := createTestContext(t, http.MethodGet, "/address/search?q=ab", "")
	require.NoError(t, SearchAddress(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchAddressRemoteFailureDegrades(t *testing.T) {
	createTestEnv(t)
	createTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c, rec := createTestContext(t, http.MethodGet, "/address/search?q=100+main", "")
	require.NoError(t, SearchAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []geocode.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Results)
}
