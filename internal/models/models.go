package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
)

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name          string    `gorm:"not null"                      json:"name"`
	Description   string    `gorm:"not null"                      json:"description"`
	Price         float64   `gorm:"not null;check:price >= 0"     json:"price"`
	Image         string    `json:"image"`
	ImagePublicID string    `json:"-"`
	Category      string    `gorm:"index"                         json:"category"`
	IsFeatured    bool      `gorm:"default:false"                 json:"is_featured"`
	Quantity      int       `gorm:"default:0;check:quantity >= 0" json:"quantity"`
	Comments      []Comment `json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	User      string    `gorm:"not null"       json:"user"`
	Rating    int       `gorm:"not null"       json:"rating"`
	Message   string    `gorm:"not null"       json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name                  string    `gorm:"not null"                  json:"name"`
	Email                 string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash          string    `gorm:"not null"                  json:"-"`
	Role                  string    `gorm:"not null;default:customer" json:"role"`
	IsVerified            bool      `gorm:"default:false"             json:"is_verified"`
	VerificationToken     string    `gorm:"index"                     json:"-"`
	VerificationExpiresAt time.Time `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                 json:"id"`
	UserID    uint `gorm:"index;not null"             json:"user_id"`
	ProductID uint `gorm:"not null"                   json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Coupon struct {
	ID                 uint      `gorm:"primaryKey"     json:"id"`
	Code               string    `gorm:"index;not null" json:"code"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	DiscountPercentage int       `gorm:"not null"       json:"discount_percentage"`
	ExpirationDate     time.Time `gorm:"not null"       json:"expiration_date"`
	IsActive           bool      `gorm:"default:true"   json:"is_active"`
}

// StripeSessionID carries a unique index: it is the idempotency key for
// order finalization, a duplicate insert signals a replayed session.
type Order struct {
	ID              uint        `gorm:"primaryKey"               json:"id"`
	UserID          uint        `gorm:"index;not null"           json:"user_id"`
	TotalAmount     float64     `gorm:"not null"                 json:"total_amount"`
	StripeSessionID string      `gorm:"uniqueIndex;not null"     json:"stripe_session_id"`
	Status          string      `gorm:"not null;default:Pending" json:"status"`
	FullName        string      `json:"full_name"`
	Street          string      `json:"street"`
	City            string      `json:"city"`
	State           string      `json:"state"`
	PostalCode      string      `json:"postal_code"`
	Country         string      `json:"country"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Role      string    `gorm:"not null"       json:"role"`
	Content   string    `gorm:"not null"       json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
