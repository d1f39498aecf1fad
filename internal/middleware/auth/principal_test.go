package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomacs/bookly/internal/models"
	"github.com/jomacs/bookly/internal/repo"
	"github.com/jomacs/bookly/internal/tokens"
)

type stubResolver struct {
	users map[string]*models.User
}

func (s stubResolver) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, repo.ErrUserNotFound
}

func newPrincipalContext(t *testing.T, claims *tokens.Claims) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}
	return c
}

func claimsFor(email string) *tokens.Claims {
	_, claims, _ := tokens.NewCodec([]byte("test-jwt-secret")).
		Issue(tokens.Subject{ID: uuid.NewString(), Email: email, Role: "user"}, tokens.Access, time.Now())
	return claims
}

func TestRequireUser_ResolvesLiveRecord(t *testing.T) {
	t.Parallel()

	// The stored role differs from the one embedded in the claims; the
	// resolved principal must carry the stored one.
	stored := &models.User{
		ID:       uuid.New(),
		Username: "reader",
		Email:    "reader@example.com",
		Role:     "admin",
	}
	resolver := stubResolver{users: map[string]*models.User{stored.Email: stored}}

	c := newPrincipalContext(t, claimsFor(stored.Email))
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	require.NoError(t, RequireUser(resolver)(next)(c))

	user := UserFromContext(c)
	require.NotNil(t, user)
	assert.Equal(t, stored.ID, user.ID)
	assert.Equal(t, "admin", user.Role)
}

func TestRequireUser_DeletedUser(t *testing.T) {
	t.Parallel()

	resolver := stubResolver{users: map[string]*models.User{}}
	c := newPrincipalContext(t, claimsFor("gone@example.com"))
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	err := RequireUser(resolver)(next)(c)
	he := requireHTTPError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "user no longer exists", he.Message)
}

func TestRequireUser_NoClaims(t *testing.T) {
	t.Parallel()

	resolver := stubResolver{users: map[string]*models.User{}}
	c := newPrincipalContext(t, nil)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	err := RequireUser(resolver)(next)(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    string
		allowed []string
		wantOK  bool
	}{
		{name: "member of singleton set", role: "admin", allowed: []string{"admin"}, wantOK: true},
		{name: "member of overlapping set", role: "user", allowed: []string{"user", "admin"}, wantOK: true},
		{name: "disjoint set", role: "user", allowed: []string{"admin"}, wantOK: false},
		{name: "empty set", role: "admin", allowed: nil, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newPrincipalContext(t, nil)
			c.Set(userContextKey, &models.User{ID: uuid.New(), Role: tt.role})
			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

			err := RequireRoles(tt.allowed...)(next)(c)
			if tt.wantOK {
				require.NoError(t, err)
			} else {
				he := requireHTTPError(t, err, http.StatusForbidden)
				assert.Equal(t, "you are not allowed to perform this action", he.Message)
			}
		})
	}
}

func TestRequireRoles_NoPrincipal(t *testing.T) {
	t.Parallel()

	c := newPrincipalContext(t, nil)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	err := RequireRoles("admin")(next)(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
}
