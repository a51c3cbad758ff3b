package handler

import (
	"errors"
	"net/http"
	"sync"

	"rental-intake/internal/geocode"
	"rental-intake/pkg/logger"
	"rental-intake/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// addressSessions orders overlapping searches per draft, so a slow response
// for an earlier keystroke can never be applied over a newer one.
var addressSessions = struct {
	mu       sync.Mutex
	byDraft  map[string]*geocode.Session
	fallback geocode.Session
}{byDraft: map[string]*geocode.Session{}}

func sessionFor(draftID string) *geocode.Session {
	if draftID == "" {
		return &addressSessions.fallback
	}
	addressSessions.mu.Lock()
	defer addressSessions.mu.Unlock()
	s, ok := addressSessions.byDraft[draftID]
	if !ok {
		s = &geocode.Session{}
		addressSessions.byDraft[draftID] = s
	}
	return s
}

// SearchAddress runs an address autocomplete query. Results that finish after
// a newer query for the same draft are reported stale and carry no candidates.
func SearchAddress(c echo.Context) error {
	log := logger.FromContext(c)

	query := c.QueryParam("q")
	session := sessionFor(c.QueryParam("draft_id"))
	seq := session.Begin()

	results, err := Geocoder.Search(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrQueryTooShort) {
			prometheus.AddressSearchCounter.WithLabelValues("too_short").Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "query too short"})
		}
		prometheus.AddressSearchCounter.WithLabelValues("failed").Inc()
		log.Warn("Address search failed", zap.String("query", query), zap.Error(err))
		// Lookup failures leave the form usable for manual entry
		return c.JSON(http.StatusOK, echo.Map{"results": []geocode.Result{}})
	}

	if !session.Accept(seq) {
		prometheus.AddressSearchCounter.WithLabelValues("stale").Inc()
		return c.JSON(http.StatusOK, echo.Map{"results": []geocode.Result{}, "stale": true})
	}

	prometheus.AddressSearchCounter.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}
