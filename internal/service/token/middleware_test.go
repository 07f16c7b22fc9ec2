package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

func newMiddlewareContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestAutoRefreshValidAccessToken(t *testing.T) {
	s := newService()

	access, err := SignAccessToken(1, models.RoleCustomer, s.JWTSecret)
	require.NoError(t, err)

	c, _ := newMiddlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})
	called := false
	require.NoError(t, s.AutoRefreshMiddleware(okHandler(&called))(c))
	require.True(t, called)

	id, err := ContextUserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(1), id)
	require.Equal(t, models.RoleCustomer, ContextRole(c))
}

func TestAutoRefreshNoCookies(t *testing.T) {
	s := newService()

	c, _ := newMiddlewareContext(t)
	called := false
	err := s.AutoRefreshMiddleware(okHandler(&called))(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.False(t, called)
}

func expiredAccessToken(t *testing.T, userID uint, role string, secret []byte) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestAutoRefreshRotatesExpiredAccessToken(t *testing.T) {
	s := newService()

	_, refresh, err := s.IssuePair(context.Background(), 2, models.RoleCustomer)
	require.NoError(t, err)

	c, rec := newMiddlewareContext(t,
		&http.Cookie{Name: "accessToken", Value: expiredAccessToken(t, 2, models.RoleCustomer, s.JWTSecret)},
		&http.Cookie{Name: "refreshToken", Value: refresh},
	)
	called := false
	require.NoError(t, s.AutoRefreshMiddleware(okHandler(&called))(c))
	require.True(t, called)

	id, err := ContextUserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(2), id)
	require.Len(t, rec.Result().Cookies(), 2)
}

func TestAutoRefreshTamperedAccessToken(t *testing.T) {
	s := newService()

	access, err := SignAccessToken(1, models.RoleCustomer, []byte("someone-else"))
	require.NoError(t, err)

	c, _ := newMiddlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})
	called := false
	merr := s.AutoRefreshMiddleware(okHandler(&called))(c)
	he, ok := merr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.False(t, called)
}

func TestAdminOnlyRejectsCustomer(t *testing.T) {
	s := newService()

	access, err := SignAccessToken(1, models.RoleCustomer, s.JWTSecret)
	require.NoError(t, err)

	c, _ := newMiddlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})
	called := false
	merr := s.AdminOnlyMiddleware(okHandler(&called))(c)
	he, ok := merr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
	require.False(t, called)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	s := newService()

	access, err := SignAccessToken(9, models.RoleAdmin, s.JWTSecret)
	require.NoError(t, err)

	c, _ := newMiddlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})
	called := false
	require.NoError(t, s.AdminOnlyMiddleware(okHandler(&called))(c))
	require.True(t, called)
}
