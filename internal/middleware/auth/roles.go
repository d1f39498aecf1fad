package auth

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequireRoles permits the request only when the resolved principal's role
// is in the allow-list. The role is read from the re-fetched user record,
// never from the token claims. Must run after RequireUser.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
			}
			if !slices.Contains(roles, user.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "you are not allowed to perform this action")
			}
			return next(c)
		}
	}
}
