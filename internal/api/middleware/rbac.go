package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/policy"
)

// RequireAdmin allows only identities flagged is_admin. Must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextKeyUser).(*domain.User)
			if user == nil || !user.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireCapability asks the authorizer whether the current identity may use
// the capability. Must run after Auth.
func RequireCapability(authz policy.Authorizer, capability policy.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextKeyUser).(*domain.User)
			if err := authz.Authorize(user, capability); err != nil {
				return err
			}
			return next(c)
		}
	}
}
