package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/domain"
)

// RequireState rejects requests whose session is not in one of the allowed
// navigation states. It must run after Auth.
func RequireState(allowed ...domain.State) echo.MiddlewareFunc {
	set := make(map[domain.State]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok || !sess.Authenticated {
				return domain.ErrUnauthenticated
			}
			if _, ok := set[sess.View.State()]; !ok {
				return domain.ErrInvalidTransition
			}
			return next(c)
		}
	}
}
