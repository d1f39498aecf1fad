package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jomacs/bookly/internal/logging"
	mwauth "github.com/jomacs/bookly/internal/middleware/auth"
	"github.com/jomacs/bookly/internal/repo"
	"github.com/jomacs/bookly/internal/service"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

type reviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review_create")

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review, err := h.Svc.AddToBook(ctx, bookID, user.Email, service.ReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrBookNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		case errors.Is(err, repo.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		default:
			l.Error("create_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "could not create review")
		}
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) ListByBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	reviews, err := h.Svc.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list reviews")
	}
	return c.JSON(http.StatusOK, reviews)
}

// Delete removes any review. The route is behind an admin-only allow-list.
func (h *ReviewHTTP) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrReviewNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete review")
	}
	return c.NoContent(http.StatusNoContent)
}
