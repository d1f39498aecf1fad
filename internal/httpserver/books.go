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

type BookHTTP struct {
	Svc *service.BookService
}

type bookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}

type bookUpdateRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	PublishedDate *string `json:"published_date"`
	PageCount     *int    `json:"page_count"`
	Language      *string `json:"language"`
}

func (h *BookHTTP) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list books")
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHTTP) ListMine(c echo.Context) error {
	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}
	books, err := h.Svc.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list books")
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHTTP) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	book, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not get book")
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_create")

	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Author == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and author are required")
	}

	book, err := h.Svc.Create(ctx, service.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	}, user.ID)
	if err != nil {
		l.Error("create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create book")
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := h.authorizeOwnerOrAdmin(c, id); err != nil {
		return err
	}

	var req bookUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	book, err := h.Svc.Update(ctx, id, service.BookUpdate{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		if errors.Is(err, repo.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update book")
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := h.authorizeOwnerOrAdmin(c, id); err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete book")
	}
	return c.NoContent(http.StatusNoContent)
}

// authorizeOwnerOrAdmin permits mutation when the principal owns the book or
// carries the admin role.
func (h *BookHTTP) authorizeOwnerOrAdmin(c echo.Context, bookID uuid.UUID) error {
	user := mwauth.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token in Authorization header")
	}
	if user.Role == "admin" {
		return nil
	}

	book, err := h.Svc.Get(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, repo.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not get book")
	}
	if book.UserID == nil || *book.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "you are not allowed to perform this action")
	}
	return nil
}
