package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/jomacs/bookly/internal/middleware/auth"
	"github.com/jomacs/bookly/internal/repo"
	"github.com/jomacs/bookly/internal/tokens"
)

type Deps struct {
	AuthHandler   *AuthHTTP
	BookHandler   *BookHTTP
	ReviewHandler *ReviewHTTP
	UserHandler   *UserHTTP

	Users     *repo.UserRepo
	Codec     *tokens.Codec
	Blocklist mwauth.RevocationChecker
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	accessGuard := mwauth.NewAccessGuard(d.Codec, d.Blocklist)
	refreshGuard := mwauth.NewRefreshGuard(d.Codec, d.Blocklist)
	principal := mwauth.RequireUser(d.Users)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh, refreshGuard.Require)
	auth.POST("/logout", d.AuthHandler.LogOut, accessGuard.Require)
	auth.GET("/me", d.AuthHandler.Me, accessGuard.Require, principal)

	books := v1.Group("/books")
	books.GET("", d.BookHandler.List)
	books.GET("/:id", d.BookHandler.Get)
	books.GET("/:id/reviews", d.ReviewHandler.ListByBook)

	booksPriv := v1.Group("/books", accessGuard.Require, principal)
	booksPriv.GET("/user/me", d.BookHandler.ListMine)
	booksPriv.POST("", d.BookHandler.Create)
	booksPriv.PATCH("/:id", d.BookHandler.Patch)
	booksPriv.DELETE("/:id", d.BookHandler.Delete)
	booksPriv.POST("/:id/reviews", d.ReviewHandler.Create)

	admin := v1.Group("", accessGuard.Require, principal, mwauth.RequireRoles("admin"))
	admin.GET("/users", d.UserHandler.List)
	admin.DELETE("/reviews/:id", d.ReviewHandler.Delete)
}
