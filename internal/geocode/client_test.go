package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-intake/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.GeocodeConfig{
		BaseURL:   srv.URL,
		UserAgent: "rental-intake-test/1.0",
		Timeout:   2 * time.Second,
	})
}

func TestSearchRejectsShortQueries(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a short query")
	})

	_, err := c.Search(context.Background(), "ab")
	assert.ErrorIs(t, err, ErrQueryTooShort)

	_, err = c.Search(context.Background(), "  abc  ")
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestSearchQueryShape(t *testing.T) {
	var gotQuery map[string]string
	var gotUA, gotLang string

	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"format":         q.Get("format"),
			"q":              q.Get("q"),
			"addressdetails": q.Get("addressdetails"),
			"limit":          q.Get("limit"),
			"countrycodes":   q.Get("countrycodes"),
		}
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte(`[]`))
	})

	results, err := c.Search(context.Background(), "100 Main St")
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.Equal(t, map[string]string{
		"format":         "json",
		"q":              "100 Main St",
		"addressdetails": "1",
		"limit":          "5",
		"countrycodes":   "us",
	}, gotQuery)
	assert.Equal(t, "rental-intake-test/1.0", gotUA)
	assert.Equal(t, "en-US", gotLang)
}

func TestSearchDecomposesCandidates(t *testing.T) {
	body := `[
		{
			"display_name": "100, Main Street, San Antonio, Texas, 78201, United States",
			"address": {"house_number": "100", "road": "Main Street", "city": "San Antonio", "state": "Texas", "postcode": "78201"}
		},
		{
			"display_name": "Elm Road, Boerne, Texas, United States",
			"address": {"road": "Elm Road", "town": "Boerne", "state": "Texas"}
		},
		{
			"display_name": "Somewhere Rural, Texas, United States",
			"address": {"municipality": "Kendall County", "state": "Texas"}
		}
	]`
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	results, err := c.Search(context.Background(), "main street")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Address{Street: "100 Main Street", City: "San Antonio", State: "Texas", Zip: "78201"}, results[0].Address)

	// No house number: street is the road alone, city falls through to town
	assert.Equal(t, Address{Street: "Elm Road", City: "Boerne", State: "Texas"}, results[1].Address)

	// No road at all: first display-name segment, city from municipality
	assert.Equal(t, Address{Street: "Somewhere Rural", City: "Kendall County", State: "Texas"}, results[2].Address)
}

func TestSearchRemoteFailure(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "main street")
	assert.Error(t, err)
}

func TestSessionDiscardsStaleCompletions(t *testing.T) {
	var s Session

	first := s.Begin()
	second := s.Begin()

	// The slower first search finishes after the second was issued
	assert.False(t, s.Accept(first))
	assert.True(t, s.Accept(second))

	// A newer search invalidates prior acceptances
	third := s.Begin()
	assert.False(t, s.Accept(second))
	assert.True(t, s.Accept(third))
}
