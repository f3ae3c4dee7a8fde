package products

import "github.com/shopspring/decimal"

type ProductForm struct {
	ItemCode    string           `json:"item_code" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	BrandID     *int64           `json:"brand_id" validate:"omitempty,min=1"`
	Category    *string          `json:"category"`
	Animal      *string          `json:"animal" validate:"omitempty,oneof=dog cat large-animals sheep-goat poultry horse"`
	MRP         *decimal.Decimal `json:"mrp" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Description *string          `json:"description"`
	Image       *string          `json:"image" validate:"omitempty,url"`
	Status      string           `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
}
