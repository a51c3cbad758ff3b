package middleware

import (
	"rental-intake/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware assigns every request a correlation id, honoring one
// supplied by the client. The id is stored under logger.RequestIDKey so the
// request-scoped logger picks it up.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(logger.RequestIDKey)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(logger.RequestIDKey, id)
		c.Response().Header().Set(logger.RequestIDKey, id)
		return next(c)
	}
}
