package variants

import "github.com/shopspring/decimal"

type VariantForm struct {
	Name      string           `json:"name" validate:"required"`
	Weight    *string          `json:"weight"`
	Unit      *string          `json:"unit"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	MRP       *decimal.Decimal `json:"mrp" validate:"required"`
	Stock     *int             `json:"stock" validate:"omitempty,min=0"`
	SKU       *string          `json:"sku"`
	IsDefault bool             `json:"is_default"`
	Status    string           `json:"status" validate:"omitempty,oneof=active inactive"`
}
