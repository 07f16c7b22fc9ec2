package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

type CouponHandler struct {
	DB *gorm.DB
}

// GetCoupon returns the caller's active coupon, or null when none exists.
func (h *CouponHandler) GetCoupon(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	var coupon models.Coupon
	if err := h.DB.Where("user_id = ? AND is_active = ?", userID, true).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, coupon)
}

// ValidateCoupon reports a coupon as valid only when it belongs to the
// caller, is active, and has not expired. An expired coupon still flagged
// active is deactivated on the spot.
func (h *CouponHandler) ValidateCoupon(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	code := c.QueryParam("code")
	if code == "" {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.Bind(&req); err == nil {
			code = req.Code
		}
	}
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	var coupon models.Coupon
	err = h.DB.Where("code = ? AND user_id = ? AND is_active = ?", code, userID, true).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Coupon not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if coupon.ExpirationDate.Before(time.Now()) {
		coupon.IsActive = false
		if err := h.DB.Save(&coupon).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Coupon is expired"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":            "Coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
