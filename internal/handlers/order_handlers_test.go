package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, session, status string, total float64) models.Order {
	t.Helper()
	order := models.Order{
		UserID:          userID,
		StripeSessionID: session,
		TotalAmount:     total,
		Status:          status,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestUpdateOrderStatus(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	order := seedOrder(t, db, 1, "cs_test_a", models.OrderStatusPending, 100)

	for _, status := range []string{models.OrderStatusShipped, models.OrderStatusDelivered} {
		c, rec := newContext(t, http.MethodPatch, "/api/orders/1", map[string]any{"status": status})
		c.SetParamNames("orderId")
		c.SetParamValues("1")
		asUser(c, 9, models.RoleAdmin)
		require.NoError(t, h.UpdateOrderStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var after models.Order
		require.NoError(t, db.First(&after, order.ID).Error)
		require.Equal(t, status, after.Status)
	}
}

func TestUpdateOrderStatusInvalid(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	seedOrder(t, db, 1, "cs_test_a", models.OrderStatusPending, 100)

	c, _ := newContext(t, http.MethodPatch, "/api/orders/1", map[string]any{"status": "Lost"})
	c.SetParamNames("orderId")
	c.SetParamValues("1")
	asUser(c, 9, models.RoleAdmin)
	err := h.UpdateOrderStatus(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}

	c, _ := newContext(t, http.MethodPatch, "/api/orders/42", map[string]any{"status": models.OrderStatusShipped})
	c.SetParamNames("orderId")
	c.SetParamValues("42")
	asUser(c, 9, models.RoleAdmin)
	err := h.UpdateOrderStatus(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetUserOrdersSkipsDelivered(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	seedOrder(t, db, 1, "cs_test_a", models.OrderStatusPending, 100)
	seedOrder(t, db, 1, "cs_test_b", models.OrderStatusShipped, 200)
	seedOrder(t, db, 1, "cs_test_c", models.OrderStatusDelivered, 300)
	seedOrder(t, db, 2, "cs_test_d", models.OrderStatusPending, 400)

	c, rec := newContext(t, http.MethodGet, "/api/orders/user-order", nil)
	asUser(c, 1, models.RoleCustomer)
	require.NoError(t, h.GetUserOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	decodeBody(t, rec, &orders)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, uint(1), o.UserID)
		require.NotEqual(t, models.OrderStatusDelivered, o.Status)
	}
}

func TestGetAllOrders(t *testing.T) {
	db := newTestDB(t)
	h := &OrderHandler{DB: db}
	seedOrder(t, db, 1, "cs_test_a", models.OrderStatusPending, 100)
	seedOrder(t, db, 2, "cs_test_b", models.OrderStatusDelivered, 200)

	c, rec := newContext(t, http.MethodGet, "/api/orders", nil)
	asUser(c, 9, models.RoleAdmin)
	require.NoError(t, h.GetAllOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	decodeBody(t, rec, &orders)
	require.Len(t, orders, 2)
}
