package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomacs/bookly/internal/logging"
	"github.com/jomacs/bookly/internal/models"
	"github.com/jomacs/bookly/internal/repo"
)

// UserResolver loads the live user record for a validated token.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// RequireUser resolves the principal for the request by re-fetching the user
// embedded in the claims. The re-fetch is deliberate: a role change or a
// deleted account takes effect immediately, regardless of what the token
// says. Must run after a TokenGuard.
func RequireUser(users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			claims := ClaimsFromContext(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
			}

			user, err := users.GetByEmail(ctx, claims.User.Email)
			if err != nil {
				if errors.Is(err, repo.ErrUserNotFound) {
					logging.FromContext(ctx).Warn("principal_not_found", "email", claims.User.Email)
					return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
				}
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the principal attached by RequireUser, or nil.
func UserFromContext(c echo.Context) *models.User {
	if user, ok := c.Get(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
