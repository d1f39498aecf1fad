package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomacs/bookly/internal/logging"
	mwauth "github.com/jomacs/bookly/internal/middleware/auth"
	"github.com/jomacs/bookly/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, service.ErrUserExists):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
		}
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		l.Warn("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"access_exp":    res.AccessExp,
		"refresh_exp":   res.RefreshExp,
		"user": echo.Map{
			"id":       res.User.ID,
			"username": res.User.Username,
			"email":    res.User.Email,
			"role":     res.User.Role,
		},
	})
}

// Refresh runs behind the refresh-token guard and mints a new access token.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mwauth.ClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}

	accessToken, accessExp, err := h.Svc.RefreshAccess(ctx, claims)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not refresh token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"access_exp":   accessExp,
	})
}

// LogOut runs behind the access-token guard and blocklists the presented
// token. A blocklist write failure is a hard 500, never a silent success.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	claims := mwauth.ClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}

	if err := h.Svc.LogOut(ctx, claims); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not revoke token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

// Me returns the resolved principal for the request.
func (h *AuthHTTP) Me(c echo.Context) error {
	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}
	return c.JSON(http.StatusOK, user)
}
