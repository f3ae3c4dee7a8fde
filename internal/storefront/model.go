package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder assets shown when the catalog has none.
const (
	PlaceholderImage   = "https://images.unsplash.com/photo-1584308666744-24d5c474f2ae?w=400&h=400&fit=crop"
	placeholderLogoURL = "https://via.placeholder.com/200x200/E5E7EB/6B7280?text="
	defaultRating      = 4.5
)

// ProductQuery filters the public product listing.
type ProductQuery struct {
	Limit    int
	Category string
	BrandID  *int64
	Animal   string
	Sort     string
}

// Sort orders accepted by ProductQuery.
const (
	SortNewest    = "created_at"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductCard is a product as rendered by the storefront grid.
type ProductCard struct {
	ID        int64           `json:"id"`
	ItemCode  string          `json:"item_code"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Category  *string         `json:"category"`
	Animal    *string         `json:"animal"`
	BrandName *string         `json:"brand_name"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
	Discount  int64           `json:"discount"`
	Stock     int             `json:"stock"`
	Image     string          `json:"image"`
	Status    string          `json:"status"`
	Href      string          `json:"href"`
	Rating    float64         `json:"rating"`
	Reviews   int             `json:"reviews"`
	Variants  []CardVariant   `json:"variants"`
}

// CardVariant is an active variant offered on a product card.
type CardVariant struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Weight    *string         `json:"weight,omitempty"`
	Unit      *string         `json:"unit,omitempty"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
	Stock     int             `json:"stock"`
	IsDefault bool            `json:"is_default"`
}

// BrandCard is a brand with its active product count.
type BrandCard struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Logo         string `json:"logo"`
	ProductCount int    `json:"product_count"`
	Href         string `json:"href"`
}

// Brand is the public brand detail.
type Brand struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	Logo *string `json:"logo"`
}

type productRow struct {
	ID        int64
	ItemCode  string
	Name      string
	Slug      string
	Category  *string
	Animal    *string
	BrandName *string
	MRP       decimal.Decimal
	Price     decimal.Decimal
	Stock     int
	Image     *string
	Status    string
	CreatedAt time.Time
}

type brandRow struct {
	ID           int64
	Name         string
	Slug         string
	Logo         *string
	ProductCount int
}
