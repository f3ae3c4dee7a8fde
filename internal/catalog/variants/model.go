package variants

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Variant is a sellable pack size of a product.
type Variant struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Weight    *string         `json:"weight"`
	Unit      *string         `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
	Stock     int             `json:"stock"`
	SKU       *string         `json:"sku"`
	IsDefault bool            `json:"is_default"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
