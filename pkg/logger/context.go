package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is the header and echo.Context key the request-id middleware
// stores the correlation id under.
const RequestIDKey = "X-Request-ID"

// requestID resolves the correlation id for a request, checking the context
// value set by the middleware before falling back to the inbound header.
func requestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok && id != "" {
		return id
	}
	if id := c.Request().Header.Get(RequestIDKey); id != "" {
		return id
	}
	return "unknown"
}

// FromContext returns the request-scoped logger, building one from the global
// logger plus the request id when the middleware has not stored one yet.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}
	return GetLogger().With(zap.String("request_id", requestID(c)))
}
