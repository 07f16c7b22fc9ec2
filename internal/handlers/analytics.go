package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

type AnalyticsHandler struct {
	DB *gorm.DB
}

type salesPoint struct {
	Date    string  `json:"date"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

func (h *AnalyticsHandler) GetOverview(c echo.Context) error {
	var users, products, totalSales int64
	if err := h.DB.Model(&models.User{}).Count(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.Product{}).Count(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.Order{}).Count(&totalSales).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var totalRevenue float64
	if err := h.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":        users,
		"products":     products,
		"totalSales":   totalSales,
		"totalRevenue": totalRevenue,
	})
}

// GetSales buckets order counts and revenue by day, month, or year across
// a date range.
func (h *AnalyticsHandler) GetSales(c echo.Context) error {
	startRaw := c.QueryParam("startDate")
	endRaw := c.QueryParam("endDate")
	if startRaw == "" || endRaw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Start date and end date are required.")
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
	}
	end = end.Add(24*time.Hour - time.Nanosecond)

	var layout string
	switch c.QueryParam("type") {
	case "daily":
		layout = "2006-01-02"
	case "monthly":
		layout = "2006-01"
	case "yearly":
		layout = "2006"
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid type. Choose 'daily', 'monthly', or 'yearly'.")
	}

	var orders []models.Order
	if err := h.DB.Where("created_at BETWEEN ? AND ?", start, end).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	buckets := make(map[string]*salesPoint)
	for _, o := range orders {
		key := o.CreatedAt.Format(layout)
		pt, ok := buckets[key]
		if !ok {
			pt = &salesPoint{Date: key}
			buckets[key] = pt
		}
		pt.Sales++
		pt.Revenue += o.TotalAmount
	}

	series := make([]salesPoint, 0, len(buckets))
	for _, pt := range buckets {
		series = append(series, *pt)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	return c.JSON(http.StatusOK, echo.Map{"salesData": series})
}
