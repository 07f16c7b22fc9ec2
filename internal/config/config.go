package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/models"
)

type Config struct {
	DB_HOST               string
	DB_PORT               string
	DB_USER               string
	DB_PASSWORD           string
	DB_NAME               string
	REDIS_ADDR            string
	REDIS_PASSWORD        string
	ES_URL                string
	ES_USER               string
	ES_PASSWORD           string
	JWT_SECRET            string
	REFRESH_SECRET        string
	KAFKA_ADDRESS         string
	STRIPE_SECRET_KEY     string
	CLIENT_URL            string
	CURRENCY              string
	SMTP_HOST             string
	SMTP_PORT             string
	SMTP_USER             string
	SMTP_PASSWORD         string
	MAIL_FROM             string
	CLOUDINARY_CLOUD_NAME string
	CLOUDINARY_API_KEY    string
	CLOUDINARY_API_SECRET string
	GROQ_API_KEY          string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:               os.Getenv("DB_HOST"),
		DB_PORT:               os.Getenv("DB_PORT"),
		DB_USER:               os.Getenv("DB_USER"),
		DB_PASSWORD:           os.Getenv("DB_PASSWORD"),
		DB_NAME:               os.Getenv("DB_NAME"),
		REDIS_ADDR:            os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:        os.Getenv("REDIS_PASSWORD"),
		ES_URL:                os.Getenv("ES_URL"),
		ES_USER:               os.Getenv("ES_USER"),
		ES_PASSWORD:           os.Getenv("ES_PASSWORD"),
		JWT_SECRET:            os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:        os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:         os.Getenv("KAFKA_ADDRESS"),
		STRIPE_SECRET_KEY:     os.Getenv("STRIPE_SECRET_KEY"),
		CLIENT_URL:            os.Getenv("CLIENT_URL"),
		CURRENCY:              os.Getenv("CURRENCY"),
		SMTP_HOST:             os.Getenv("SMTP_HOST"),
		SMTP_PORT:             os.Getenv("SMTP_PORT"),
		SMTP_USER:             os.Getenv("SMTP_USER"),
		SMTP_PASSWORD:         os.Getenv("SMTP_PASSWORD"),
		MAIL_FROM:             os.Getenv("MAIL_FROM"),
		CLOUDINARY_CLOUD_NAME: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CLOUDINARY_API_KEY:    os.Getenv("CLOUDINARY_API_KEY"),
		CLOUDINARY_API_SECRET: os.Getenv("CLOUDINARY_API_SECRET"),
		GROQ_API_KEY:          os.Getenv("GROQ_API_KEY"),
	}

	if config.CURRENCY == "" {
		config.CURRENCY = "inr"
	}

	return config, nil
}

func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Comment{},
		&models.User{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
	)
}
