package handlers

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
	"github.com/vardhaman/furnishing-shop/internal/mykafka"
	"github.com/vardhaman/furnishing-shop/internal/payments"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

// rewardThresholdCents: carts at or above this discounted total earn the
// customer a fresh gift coupon.
const (
	rewardThresholdCents  = 20000
	rewardDiscountPercent = 10
	rewardCouponValidity  = 30 * 24 * time.Hour
	giftCodeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	giftCodeLength        = 6
)

type PaymentHandler struct {
	DB        *gorm.DB
	Payments  payments.Client
	Producer  *mykafka.Producer
	ClientURL string
}

type checkoutProduct struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity uint    `json:"quantity"`
}

// metadataProduct is the line-item snapshot serialized into session
// metadata; the provider does not retain application line-item identity.
type metadataProduct struct {
	ID       uint    `json:"id"`
	Quantity uint    `json:"quantity"`
	Price    float64 `json:"price"`
}

func (h *PaymentHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func unitAmountCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func percentOffCents(total int64, percent int) int64 {
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func centsToAmount(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).InexactFloat64()
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Products   []checkoutProduct `json:"products"`
		CouponCode string            `json:"couponCode"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Products) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or empty products array")
	}

	var totalCents int64
	lineItems := make([]payments.LineItem, 0, len(req.Products))
	metaProducts := make([]metadataProduct, 0, len(req.Products))
	for _, p := range req.Products {
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		unit := unitAmountCents(p.Price)
		totalCents += unit * int64(qty)
		lineItems = append(lineItems, payments.LineItem{
			Name:       p.Name,
			Image:      p.Image,
			UnitAmount: unit,
			Quantity:   int64(qty),
		})
		metaProducts = append(metaProducts, metadataProduct{ID: p.ID, Quantity: qty, Price: p.Price})
	}

	percentOff := 0
	if req.CouponCode != "" {
		var coupon models.Coupon
		err := h.DB.Where("code = ? AND user_id = ? AND is_active = ?", req.CouponCode, userID, true).
			First(&coupon).Error
		if err == nil && coupon.ExpirationDate.After(time.Now()) {
			percentOff = coupon.DiscountPercentage
			totalCents -= percentOffCents(totalCents, percentOff)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	metaJSON, err := json.Marshal(metaProducts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sess, err := h.Payments.CreateSession(c.Request().Context(), payments.SessionParams{
		LineItems:  lineItems,
		SuccessURL: h.ClientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  h.ClientURL + "/purchase-cancel",
		PercentOff: percentOff,
		Metadata: map[string]string{
			"userId":     strconv.FormatUint(uint64(userID), 10),
			"couponCode": req.CouponCode,
			"products":   string(metaJSON),
		},
	})
	if err != nil {
		c.Logger().Errorf("checkout session error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing checkout: "+err.Error())
	}

	if totalCents >= rewardThresholdCents {
		if err := h.issueRewardCoupon(userID); err != nil {
			c.Logger().Errorf("reward coupon error: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":          sess.ID,
		"totalAmount": centsToAmount(totalCents),
	})
}

// issueRewardCoupon replaces whatever coupon the user holds, keeping the
// one-active-coupon-per-user invariant.
func (h *PaymentHandler) issueRewardCoupon(userID uint) error {
	code, err := giftCode()
	if err != nil {
		return err
	}
	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Coupon{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Coupon{
			Code:               code,
			UserID:             userID,
			DiscountPercentage: rewardDiscountPercent,
			ExpirationDate:     time.Now().Add(rewardCouponValidity),
			IsActive:           true,
		}).Error
	})
}

func giftCode() (string, error) {
	buf := make([]byte, giftCodeLength)
	max := big.NewInt(int64(len(giftCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = giftCodeAlphabet[n.Int64()]
	}
	return "GIFT" + string(buf), nil
}

func (h *PaymentHandler) CheckoutSuccess(c echo.Context) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sessionId is required")
	}

	sess, err := h.Payments.RetrieveSession(c.Request().Context(), req.SessionID)
	if err != nil {
		c.Logger().Errorf("retrieve session error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing successful checkout: "+err.Error())
	}
	if sess.PaymentStatus != payments.PaymentStatusPaid {
		return echo.NewHTTPError(http.StatusBadRequest, "Payment was not successful.")
	}

	// Replayed redirects with the same session must return the first
	// order untouched.
	var existing models.Order
	err = h.DB.Where("stripe_session_id = ?", req.SessionID).First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Order already exists.",
			"orderId": existing.ID,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userID64, err := strconv.ParseUint(sess.Metadata["userId"], 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session metadata")
	}
	userID := uint(userID64)

	var metaProducts []metadataProduct
	if err := json.Unmarshal([]byte(sess.Metadata["products"]), &metaProducts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session metadata")
	}

	order := models.Order{
		UserID:          userID,
		TotalAmount:     centsToAmount(sess.AmountTotal),
		StripeSessionID: req.SessionID,
		Status:          models.OrderStatusPending,
		FullName:        sess.CustomerName,
		Street:          sess.Address.Line1,
		City:            sess.Address.City,
		State:           sess.Address.State,
		PostalCode:      sess.Address.PostalCode,
		Country:         sess.Address.Country,
	}

	// Coupon deactivation, order creation, stock decrement, and cart
	// clearing commit or roll back together.
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if code := sess.Metadata["couponCode"]; code != "" {
			if err := tx.Model(&models.Coupon{}).
				Where("code = ? AND user_id = ?", code, userID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, p := range metaProducts {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  p.Quantity,
				Price:     p.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", p.ID, p.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", p.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Payment is already captured, so clamp rather
				// than fail the order.
				if err := tx.Model(&models.Product{}).
					Where("id = ?", p.ID).
					UpdateColumn("quantity", 0).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})

	if txErr != nil {
		// A concurrent replay that won the insert race trips the
		// unique index; serve its order as the idempotent result.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			var winner models.Order
			if err := h.DB.Where("stripe_session_id = ?", req.SessionID).First(&winner).Error; err == nil {
				return c.JSON(http.StatusOK, echo.Map{
					"success": true,
					"message": "Order already exists.",
					"orderId": winner.ID,
				})
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing successful checkout: "+txErr.Error())
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.TotalAmount,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment successful, order created, and coupon deactivated if used.",
		"orderId": order.ID,
	})
}
