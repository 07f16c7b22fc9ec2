package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/cache"
	"github.com/vardhaman/furnishing-shop/internal/hash"
	"github.com/vardhaman/furnishing-shop/internal/mail"
	"github.com/vardhaman/furnishing-shop/internal/models"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

func newAuthHandler(db *gorm.DB) (*AuthHandler, *mail.MockMailer, *token.Service) {
	mailer := &mail.MockMailer{}
	tokens := &token.Service{
		Cache:         cache.NewMemory(),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	return &AuthHandler{
		DB:        db,
		Tokens:    tokens,
		Mailer:    mailer,
		ClientURL: "http://localhost:5173",
	}, mailer, tokens
}

func signupBody(email string) map[string]any {
	return map[string]any{
		"name":     "Aman",
		"email":    email,
		"password": "s3cret-pass",
	}
}

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	db := newTestDB(t)
	h, mailer, _ := newAuthHandler(db)

	c, rec := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "aman@example.com").First(&user).Error)
	require.False(t, user.IsVerified)
	require.NotEmpty(t, user.VerificationToken)
	require.True(t, user.VerificationExpiresAt.After(time.Now()))
	require.Equal(t, models.RoleCustomer, user.Role)

	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
		require.True(t, ck.HttpOnly)
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])

	// The verification mail goes out on a separate goroutine.
	require.Eventually(t, func() bool {
		return len(mailer.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	sent := mailer.Messages()[0]
	require.Equal(t, "aman@example.com", sent.To)
	require.Contains(t, sent.ButtonLink, user.VerificationToken)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))

	c, _ = newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "User already exists", he.Message)
}

func TestVerifyEmail(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))

	var user models.User
	require.NoError(t, db.Where("email = ?", "aman@example.com").First(&user).Error)

	c, rec := newContext(t, http.MethodGet, "/api/auth/verify-email?token="+user.VerificationToken, nil)
	require.NoError(t, h.VerifyEmail(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&user, user.ID).Error)
	require.True(t, user.IsVerified)
	require.Empty(t, user.VerificationToken)
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodGet, "/api/auth/verify-email?token=deadbeef", nil)
	err := h.VerifyEmail(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	passwordHash, err := hash.HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := models.User{
		Name:                  "Aman",
		Email:                 "aman@example.com",
		PasswordHash:          passwordHash,
		Role:                  models.RoleCustomer,
		VerificationToken:     "stale-token",
		VerificationExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&user).Error)

	c, _ := newContext(t, http.MethodGet, "/api/auth/verify-email?token=stale-token", nil)
	verr := h.VerifyEmail(c)
	he, ok := verr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)

	require.NoError(t, db.First(&user, user.ID).Error)
	require.False(t, user.IsVerified)
}

func verifyUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	user.IsVerified = true
	user.VerificationToken = ""
	require.NoError(t, db.Save(&user).Error)
	return user
}

func TestLoginUnverified(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))

	c, _ = newContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "aman@example.com",
		"password": "s3cret-pass",
	})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))
	verifyUser(t, db, "aman@example.com")

	c, rec := newContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "aman@example.com",
		"password": "s3cret-pass",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, "aman@example.com", resp.Email)
	require.False(t, resp.IsAdmin)
	require.Len(t, rec.Result().Cookies(), 2)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	c, _ := newContext(t, http.MethodPost, "/api/auth/signup", signupBody("aman@example.com"))
	require.NoError(t, h.Signup(c))
	verifyUser(t, db, "aman@example.com")

	c, _ = newContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "aman@example.com",
		"password": "wrong",
	})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "Invalid credentials", he.Message)
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	db := newTestDB(t)
	h, _, tokens := newAuthHandler(db)

	user := models.User{Name: "Aman", Email: "aman@example.com", PasswordHash: "x", Role: models.RoleCustomer, IsVerified: true}
	require.NoError(t, db.Create(&user).Error)

	_, refresh, err := tokens.IssuePair(context.Background(), user.ID, user.Role)
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodPost, "/api/auth/refresh-token", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, h.RefreshToken(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 2)
}

func TestRefreshTokenRevokedAfterLogout(t *testing.T) {
	db := newTestDB(t)
	h, _, tokens := newAuthHandler(db)

	user := models.User{Name: "Aman", Email: "aman@example.com", PasswordHash: "x", Role: models.RoleCustomer, IsVerified: true}
	require.NoError(t, db.Create(&user).Error)

	_, refresh, err := tokens.IssuePair(context.Background(), user.ID, user.Role)
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodPost, "/api/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ = newContext(t, http.MethodPost, "/api/auth/refresh-token", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	rerr := h.RefreshToken(c)
	he, ok := rerr.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	h, _, _ := newAuthHandler(db)

	passwordHash, err := hash.HashPassword("old-pass")
	require.NoError(t, err)
	user := models.User{Name: "Aman", Email: "aman@example.com", PasswordHash: passwordHash, Role: models.RoleCustomer, IsVerified: true}
	require.NoError(t, db.Create(&user).Error)

	c, rec := newContext(t, http.MethodPatch, "/api/auth/update-profile", map[string]any{
		"name":     "Aman Jain",
		"password": "new-pass",
	})
	asUser(c, user.ID, user.Role)
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&user, user.ID).Error)
	require.Equal(t, "Aman Jain", user.Name)
	require.True(t, hash.CheckPassword(user.PasswordHash, "new-pass"))
}
