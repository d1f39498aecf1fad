package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomacs/bookly/internal/repo"
)

type UserHTTP struct {
	Users *repo.UserRepo
}

// List returns every account. Admin-only.
func (h *UserHTTP) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list users")
	}
	return c.JSON(http.StatusOK, users)
}
