package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/api/middleware"
	"github.com/safespace/support-portal/internal/core/domain"
)

// ctxSession returns the authenticated session loaded by the Auth middleware.
// A missing or anonymous session means the route was mounted without Auth
// or the session was logged out concurrently.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok || !s.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	return s, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
