package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/hash"
	"github.com/vardhaman/furnishing-shop/internal/mail"
	"github.com/vardhaman/furnishing-shop/internal/models"
	"github.com/vardhaman/furnishing-shop/internal/mykafka"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

const verificationWindow = 24 * time.Hour

type AuthHandler struct {
	DB        *gorm.DB
	Tokens    *token.Service
	Mailer    mail.Mailer
	Producer  *mykafka.Producer
	ClientURL string
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) setAuthCookies(c echo.Context, access, refresh string) {
	c.SetCookie(token.CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTokenTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTokenTTL)))
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	verifyToken, err := randomToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Name:                  req.Name,
		Email:                 req.Email,
		PasswordHash:          passwordHash,
		Role:                  models.RoleCustomer,
		IsVerified:            false,
		VerificationToken:     verifyToken,
		VerificationExpiresAt: time.Now().Add(verificationWindow),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Fire-and-forget; the sweeper removes the account if the mail is
	// never acted on.
	logger := c.Logger()
	go func(email, tok string) {
		link := h.ClientURL + "/api/auth/verify-email?token=" + tok
		if err := h.Mailer.Send(email, "Verify your email", link, "Verify Email", "Email verification"); err != nil {
			logger.Errorf("verification mail error: %v", err)
		}
	}(user.Email, verifyToken)

	access, refresh, err := h.Tokens.IssuePair(c.Request().Context(), user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.setAuthCookies(c, access, refresh)

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User not found")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}
	if !user.IsVerified {
		return echo.NewHTTPError(http.StatusForbidden, "email not verified")
	}

	access, refresh, err := h.Tokens.IssuePair(c.Request().Context(), user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.setAuthCookies(c, access, refresh)

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"role":     user.Role,
		"is_admin": user.Role == models.RoleAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token missing")
	}

	if err := h.Tokens.Revoke(c.Request().Context(), refreshCookie.Value); err != nil {
		c.Logger().Errorf("revoke refresh token error: %v", err)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "No refresh token is provided")
	}

	access, refresh, err := h.Tokens.RotateToken(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is invalid")
	}
	h.setAuthCookies(c, access, refresh)

	return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed successfully"})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	tok := c.QueryParam("token")
	if tok == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	var user models.User
	if err := h.DB.Where("verification_token = ?", tok).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invalid verification token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if time.Now().After(user.VerificationExpiresAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "verification token expired")
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "user_verified",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		passwordHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user.PasswordHash = passwordHash
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}
