package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/handlers"
	"github.com/vardhaman/furnishing-shop/internal/handlers/cart"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

type Deps struct {
	DB               *gorm.DB
	Tokens           *token.Service
	AuthHandler      *handlers.AuthHandler
	ProductHandler   *handlers.ProductHandler
	CartHandler      *cart.CartHandler
	CouponHandler    *handlers.CouponHandler
	PaymentHandler   *handlers.PaymentHandler
	OrderHandler     *handlers.OrderHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	ChatbotHandler   *handlers.ChatbotHandler
	SearchHandler    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)
	auth.GET("/verify-email", d.AuthHandler.VerifyEmail)
	auth.GET("/profile", d.AuthHandler.Profile, d.Tokens.AutoRefreshMiddleware)
	auth.PATCH("/update-profile", d.AuthHandler.UpdateProfile, d.Tokens.AutoRefreshMiddleware)
	auth.GET("/getusers", d.AuthHandler.GetUsers, d.Tokens.AdminOnlyMiddleware)

	products := api.Group("/products")
	products.GET("/recommendations", d.ProductHandler.GetRecommendedProducts)
	products.GET("/category/:category", d.ProductHandler.GetProductsByCategory)
	products.GET("/featured", d.ProductHandler.GetFeaturedProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/comments", d.ProductHandler.GetProductComments)
	products.POST("/:id/comment", d.ProductHandler.CommentOnProduct, d.Tokens.AutoRefreshMiddleware)
	products.GET("", d.ProductHandler.GetProducts, d.Tokens.AdminOnlyMiddleware)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.AdminOnlyMiddleware)
	products.PATCH("/featured/:id", d.ProductHandler.ToggleFeaturedProduct, d.Tokens.AdminOnlyMiddleware)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, d.Tokens.AdminOnlyMiddleware)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.AdminOnlyMiddleware)

	cartGroup := api.Group("/cart", d.Tokens.AutoRefreshMiddleware)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PUT("/:id", d.CartHandler.UpdateQuantity)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveItem)
	cartGroup.DELETE("", d.CartHandler.ClearCart)

	coupons := api.Group("/coupons", d.Tokens.AutoRefreshMiddleware)
	coupons.GET("", d.CouponHandler.GetCoupon)
	coupons.GET("/validate", d.CouponHandler.ValidateCoupon)

	paymentsGroup := api.Group("/payments", d.Tokens.AutoRefreshMiddleware)
	paymentsGroup.POST("/create-checkout-session", d.PaymentHandler.CreateCheckoutSession)
	paymentsGroup.POST("/checkout-success", d.PaymentHandler.CheckoutSuccess)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.GetAllOrders, d.Tokens.AdminOnlyMiddleware)
	orders.GET("/user-order", d.OrderHandler.GetUserOrders, d.Tokens.AutoRefreshMiddleware)
	orders.PATCH("/:orderId", d.OrderHandler.UpdateOrderStatus, d.Tokens.AdminOnlyMiddleware)

	analytics := api.Group("/analytics", d.Tokens.AdminOnlyMiddleware)
	analytics.GET("", d.AnalyticsHandler.GetOverview)
	analytics.GET("/sales", d.AnalyticsHandler.GetSales)

	api.POST("/chatbot", d.ChatbotHandler.Chat, d.Tokens.AutoRefreshMiddleware)
}
