// Package orders exposes the admin view of storefront orders. Orders are
// placed by an external channel; this package reads them and moves their
// status forward.
package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   *string         `json:"customer_email"`
	CustomerPhone   *string         `json:"customer_phone"`
	ShippingAddress *string         `json:"shipping_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Item struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   *int64          `json:"product_id"`
	VariantID   *int64          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ListFilters narrows the admin order table.
type ListFilters struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// StatusUpdate carries the optional status changes of PUT /orders/{id}.
type StatusUpdate struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending paid failed refunded"`
}
