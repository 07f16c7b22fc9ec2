package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

func seedOrderAt(t *testing.T, db *gorm.DB, session string, total float64, at time.Time) {
	t.Helper()
	order := models.Order{
		UserID:          1,
		StripeSessionID: session,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		CreatedAt:       at,
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestGetOverview(t *testing.T) {
	db := newTestDB(t)
	h := &AnalyticsHandler{DB: db}

	require.NoError(t, db.Create(&models.User{Name: "Aman", Email: "a@example.com", PasswordHash: "x", Role: models.RoleCustomer}).Error)
	seedProduct(t, db, "Persian Rug", 100, 10)
	seedProduct(t, db, "Door Mat", 50, 5)
	seedOrderAt(t, db, "cs_test_a", 150, time.Now())
	seedOrderAt(t, db, "cs_test_b", 250, time.Now())

	c, rec := newContext(t, http.MethodGet, "/api/analytics", nil)
	asUser(c, 9, models.RoleAdmin)
	require.NoError(t, h.GetOverview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users        int64   `json:"users"`
		Products     int64   `json:"products"`
		TotalSales   int64   `json:"totalSales"`
		TotalRevenue float64 `json:"totalRevenue"`
	}
	decodeBody(t, rec, &resp)
	require.EqualValues(t, 1, resp.Users)
	require.EqualValues(t, 2, resp.Products)
	require.EqualValues(t, 2, resp.TotalSales)
	require.Equal(t, 400.0, resp.TotalRevenue)
}

func TestGetSalesDaily(t *testing.T) {
	db := newTestDB(t)
	h := &AnalyticsHandler{DB: db}

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 18, 30, 0, 0, time.UTC)
	seedOrderAt(t, db, "cs_test_a", 100, day1)
	seedOrderAt(t, db, "cs_test_b", 50, day1)
	seedOrderAt(t, db, "cs_test_c", 200, day2)
	seedOrderAt(t, db, "cs_test_d", 999, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	c, rec := newContext(t, http.MethodGet, "/api/analytics/sales?type=daily&startDate=2026-03-01&endDate=2026-03-31", nil)
	asUser(c, 9, models.RoleAdmin)
	require.NoError(t, h.GetSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SalesData []salesPoint `json:"salesData"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.SalesData, 2)
	require.Equal(t, "2026-03-10", resp.SalesData[0].Date)
	require.EqualValues(t, 2, resp.SalesData[0].Sales)
	require.Equal(t, 150.0, resp.SalesData[0].Revenue)
	require.Equal(t, "2026-03-11", resp.SalesData[1].Date)
	require.EqualValues(t, 1, resp.SalesData[1].Sales)
}

func TestGetSalesMonthly(t *testing.T) {
	db := newTestDB(t)
	h := &AnalyticsHandler{DB: db}

	seedOrderAt(t, db, "cs_test_a", 100, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	seedOrderAt(t, db, "cs_test_b", 200, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))
	seedOrderAt(t, db, "cs_test_c", 300, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))

	c, rec := newContext(t, http.MethodGet, "/api/analytics/sales?type=monthly&startDate=2026-01-01&endDate=2026-12-31", nil)
	asUser(c, 9, models.RoleAdmin)
	require.NoError(t, h.GetSales(c))

	var resp struct {
		SalesData []salesPoint `json:"salesData"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.SalesData, 2)
	require.Equal(t, "2026-01", resp.SalesData[0].Date)
	require.Equal(t, 300.0, resp.SalesData[0].Revenue)
	require.Equal(t, "2026-02", resp.SalesData[1].Date)
}

func TestGetSalesInvalidType(t *testing.T) {
	db := newTestDB(t)
	h := &AnalyticsHandler{DB: db}

	c, _ := newContext(t, http.MethodGet, "/api/analytics/sales?type=weekly&startDate=2026-01-01&endDate=2026-01-31", nil)
	asUser(c, 9, models.RoleAdmin)
	err := h.GetSales(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetSalesMissingRange(t *testing.T) {
	db := newTestDB(t)
	h := &AnalyticsHandler{DB: db}

	c, _ := newContext(t, http.MethodGet, "/api/analytics/sales?type=daily", nil)
	asUser(c, 9, models.RoleAdmin)
	err := h.GetSales(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}
