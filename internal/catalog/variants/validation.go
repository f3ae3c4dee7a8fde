package variants

import (
	"strings"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

const msgRequired = "Name, price, and MRP are required"

func toVariant(productID int64, form VariantForm) (Variant, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" || form.Price == nil || form.MRP == nil {
		return Variant{}, shared.NewError(shared.ErrValidation, msgRequired)
	}
	if !form.Price.IsPositive() || !form.MRP.IsPositive() {
		return Variant{}, shared.NewError(shared.ErrValidation, "Price and MRP must be greater than zero")
	}
	v := Variant{
		ProductID: productID,
		Name:      name,
		Weight:    catalog.OptionalText(form.Weight),
		Unit:      catalog.OptionalText(form.Unit),
		Price:     *form.Price,
		MRP:       *form.MRP,
		SKU:       catalog.OptionalText(form.SKU),
		IsDefault: form.IsDefault,
		Status:    form.Status,
	}
	if form.Stock != nil {
		v.Stock = *form.Stock
	}
	if v.Status == "" {
		v.Status = StatusActive
	}
	return v, nil
}
