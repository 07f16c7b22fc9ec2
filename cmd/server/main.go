package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vardhaman/furnishing-shop/internal/cache"
	"github.com/vardhaman/furnishing-shop/internal/chat"
	"github.com/vardhaman/furnishing-shop/internal/config"
	"github.com/vardhaman/furnishing-shop/internal/es"
	"github.com/vardhaman/furnishing-shop/internal/handlers"
	"github.com/vardhaman/furnishing-shop/internal/handlers/cart"
	"github.com/vardhaman/furnishing-shop/internal/images"
	"github.com/vardhaman/furnishing-shop/internal/logging"
	"github.com/vardhaman/furnishing-shop/internal/mail"
	"github.com/vardhaman/furnishing-shop/internal/mykafka"
	"github.com/vardhaman/furnishing-shop/internal/payments"
	"github.com/vardhaman/furnishing-shop/internal/service/cleanup"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
	httpserver "github.com/vardhaman/furnishing-shop/internal/transport/http"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	redisStore := cache.NewRedis(configuration.REDIS_ADDR, configuration.REDIS_PASSWORD)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	mailer, err := mail.NewSMTPMailer(
		configuration.SMTP_HOST,
		configuration.SMTP_PORT,
		configuration.SMTP_USER,
		configuration.SMTP_PASSWORD,
		configuration.MAIL_FROM,
	)
	if err != nil {
		log.Fatal(err)
	}

	uploader, err := images.NewCloudinary(
		configuration.CLOUDINARY_CLOUD_NAME,
		configuration.CLOUDINARY_API_KEY,
		configuration.CLOUDINARY_API_SECRET,
	)
	if err != nil {
		log.Fatal(err)
	}

	completer, err := chat.NewGroqCompleter(configuration.GROQ_API_KEY)
	if err != nil {
		log.Fatal(err)
	}

	stripeClient := payments.NewStripeClient(configuration.STRIPE_SECRET_KEY, configuration.CURRENCY)

	tokens := &token.Service{
		Cache:         redisStore,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}

	sweeper := cleanup.New(db, logger)
	if err := sweeper.Start(); err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:     db,
		Tokens: tokens,
		AuthHandler: &handlers.AuthHandler{
			DB:        db,
			Tokens:    tokens,
			Mailer:    mailer,
			Producer:  prod,
			ClientURL: configuration.CLIENT_URL,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Cache:    redisStore,
			Uploader: uploader,
			ES:       esClient,
			ESIndex:  es.ProductIndex,
			Producer: prod,
		},
		CartHandler:   &cart.CartHandler{DB: db, Producer: prod},
		CouponHandler: &handlers.CouponHandler{DB: db},
		PaymentHandler: &handlers.PaymentHandler{
			DB:        db,
			Payments:  stripeClient,
			Producer:  prod,
			ClientURL: configuration.CLIENT_URL,
		},
		OrderHandler:     &handlers.OrderHandler{DB: db, Producer: prod},
		AnalyticsHandler: &handlers.AnalyticsHandler{DB: db},
		ChatbotHandler:   &handlers.ChatbotHandler{DB: db, Completer: completer},
		SearchHandler:    &handlers.SearchHandler{ES: esClient, Index: es.ProductIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	sweeper.Stop()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := redisStore.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
