package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/swastik-pharma/vetstore/internal/catalog/variants"
)

// Product represents a catalog product as the admin sees it.
type Product struct {
	ID          int64              `json:"id"`
	ItemCode    string             `json:"item_code"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	BrandID     *int64             `json:"brand_id"`
	BrandName   *string            `json:"brand_name"`
	BrandSlug   *string            `json:"brand_slug"`
	Category    *string            `json:"category"`
	Animal      *string            `json:"animal"`
	MRP         decimal.Decimal    `json:"mrp"`
	Price       decimal.Decimal    `json:"price"`
	Stock       int                `json:"stock"`
	Description *string            `json:"description"`
	Image       *string            `json:"image"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Variants    []variants.Variant `json:"variants,omitempty"`
}
