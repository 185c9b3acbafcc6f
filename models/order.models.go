package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusCompleted  OrderStatus = "completed"
)

// PaymentMethod is "cod" (cash on delivery) or "upi" (online, via the gateway)
type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "cod"
	PaymentUPI PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCOD || m == PaymentUPI
}

// Order represents a placed order. Items and Total never change after creation.
type Order struct {
	ID            string          `bson:"_id" json:"id"`
	UserID        string          `bson:"user_id" json:"userId"`
	Items         []CartItem      `bson:"items" json:"items"`
	Subtotal      decimal.Decimal `bson:"subtotal" json:"subtotal"`
	Shipping      decimal.Decimal `bson:"shipping" json:"shipping"`
	Discount      decimal.Decimal `bson:"discount" json:"discount"`
	PromoCode     string          `bson:"promo_code,omitempty" json:"promoCode,omitempty"`
	Total         decimal.Decimal `bson:"total" json:"total"`
	Status        OrderStatus     `bson:"status" json:"status"`
	PaymentMethod PaymentMethod   `bson:"payment_method" json:"paymentMethod"`
	PaymentID     string          `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	Address       string          `bson:"address" json:"address"`
	Phone         string          `bson:"phone" json:"phone"`
	CreatedAt     time.Time       `bson:"created_at" json:"createdAt"`
}

// NewOrder is everything the caller supplies; the ledger fills in ID and CreatedAt
type NewOrder struct {
	UserID        string
	Items         []CartItem
	Subtotal      decimal.Decimal
	Shipping      decimal.Decimal
	Discount      decimal.Decimal
	PromoCode     string
	Total         decimal.Decimal
	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentID     string
	Address       string
	Phone         string
}
