package token

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vardhaman/furnishing-shop/internal/cache"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	Cache         cache.Store
	JWTSecret     []byte
	RefreshSecret []byte
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func SignAccessToken(userID uint, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignRefreshToken(userID uint, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(RefreshTokenTTL).Unix(),
		"typ":  "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// IssuePair signs a fresh access/refresh pair and stores the refresh token
// under refreshToken:<userId> with the cache TTL matching its expiry.
func (s *Service) IssuePair(ctx context.Context, userID uint, role string) (access, refresh string, err error) {
	access, err = SignAccessToken(userID, role, s.JWTSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err = SignRefreshToken(userID, role, s.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	if err := s.Cache.Set(ctx, cache.RefreshTokenKey(userID), refresh, cache.RefreshTokenTTL); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return access, refresh, nil
}

// ValidateRefresh verifies the signature and typ claim, then checks the raw
// token against the copy stored in the cache.
func (s *Service) ValidateRefresh(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, fmt.Errorf("not a refresh token")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing subject claim")
	}

	stored, err := s.Cache.Get(ctx, cache.RefreshTokenKey(uint(sub)))
	if err != nil {
		return nil, fmt.Errorf("refresh token not found")
	}
	if stored != rawToken {
		return nil, fmt.Errorf("refresh token mismatch")
	}

	return claims, nil
}

// RotateToken exchanges a valid refresh token for a fresh pair.
func (s *Service) RotateToken(ctx context.Context, rawToken string) (string, string, error) {
	claims, err := s.ValidateRefresh(ctx, rawToken)
	if err != nil {
		return "", "", err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	return s.IssuePair(ctx, userID, role)
}

// Revoke drops the stored refresh token for the given raw token's subject.
func (s *Service) Revoke(ctx context.Context, rawToken string) error {
	t, _ := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		return s.RefreshSecret, nil
	})
	if t == nil {
		return fmt.Errorf("cannot parse refresh token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("cannot parse claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return fmt.Errorf("missing subject claim")
	}
	return s.Cache.Del(ctx, cache.RefreshTokenKey(uint(sub)))
}

func ContextUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}
	return id, nil
}

func ContextRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
