package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomacs/bookly/internal/tokens"
)

type stubChecker struct {
	revoked map[string]bool
}

func (s stubChecker) IsRevoked(_ context.Context, jti string) bool {
	return s.revoked[jti]
}

func newGuardEnv(t *testing.T) (*tokens.Codec, stubChecker) {
	t.Helper()
	return tokens.NewCodec([]byte("test-jwt-secret")), stubChecker{revoked: map[string]bool{}}
}

func issue(t *testing.T, codec *tokens.Codec, kind tokens.Kind) (string, *tokens.Claims) {
	t.Helper()

	raw, claims, err := codec.Issue(tokens.Subject{
		ID:    "9a1b2c3d-0000-4000-8000-000000000001",
		Email: "reader@example.com",
		Role:  "user",
	}, kind, time.Now())
	require.NoError(t, err)
	return raw, claims
}

func invokeGuard(t *testing.T, guard *TokenGuard, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, guard.Require(next)(c)
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()

	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
	return he
}

func TestTokenGuard_MissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	raw, _ := issue(t, codec, tokens.Access)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "scheme only", header: "Bearer"},
		{name: "scheme with empty credential", header: "Bearer   "},
		{name: "bare token without scheme", header: raw},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := invokeGuard(t, guard, tt.header)
			he := requireHTTPError(t, err, http.StatusUnauthorized)
			assert.Contains(t, he.Message, "missing bearer token")
		})
	}
}

func TestTokenGuard_InvalidToken(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	otherCodec := tokens.NewCodec([]byte("a-different-secret"))
	forged, _ := issue(t, otherCodec, tokens.Access)

	for _, raw := range []string{"garbage", forged} {
		_, err := invokeGuard(t, guard, "Bearer "+raw)
		he := requireHTTPError(t, err, http.StatusUnauthorized)
		assert.Equal(t, "invalid authentication token", he.Message)
	}
}

func TestTokenGuard_ExpiredToken(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	raw, _, err := codec.Issue(tokens.Subject{Email: "reader@example.com"}, tokens.Access, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = invokeGuard(t, guard, "Bearer "+raw)
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestTokenGuard_RevokedToken(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	raw, claims := issue(t, codec, tokens.Access)
	checker.revoked[claims.ID] = true

	_, err := invokeGuard(t, guard, "Bearer "+raw)
	he := requireHTTPError(t, err, http.StatusForbidden)
	assert.Contains(t, he.Message, "revoked")
}

func TestTokenGuard_WrongKind(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	accessGuard := NewAccessGuard(codec, checker)
	refreshGuard := NewRefreshGuard(codec, checker)

	accessRaw, _ := issue(t, codec, tokens.Access)
	refreshRaw, _ := issue(t, codec, tokens.Refresh)

	_, err := invokeGuard(t, accessGuard, "Bearer "+refreshRaw)
	he := requireHTTPError(t, err, http.StatusForbidden)
	assert.Equal(t, "refresh token not allowed for this endpoint", he.Message)

	_, err = invokeGuard(t, refreshGuard, "Bearer "+accessRaw)
	he = requireHTTPError(t, err, http.StatusForbidden)
	assert.Equal(t, "please provide a valid refresh token", he.Message)
}

func TestTokenGuard_Success_AttachesClaims(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	raw, issued := issue(t, codec, tokens.Access)

	c, err := invokeGuard(t, guard, "Bearer "+raw)
	require.NoError(t, err)

	claims := ClaimsFromContext(c)
	require.NotNil(t, claims)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "reader@example.com", claims.User.Email)
}

func TestTokenGuard_CaseInsensitiveScheme(t *testing.T) {
	t.Parallel()

	codec, checker := newGuardEnv(t)
	guard := NewAccessGuard(codec, checker)

	raw, _ := issue(t, codec, tokens.Access)

	_, err := invokeGuard(t, guard, "bearer "+raw)
	require.NoError(t, err)
}
