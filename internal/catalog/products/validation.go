package products

import (
	"strings"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

const msgRequired = "Item code, name, MRP, and price are required"

func (s *Service) toProduct(form ProductForm) (Product, error) {
	code := strings.TrimSpace(form.ItemCode)
	name := strings.TrimSpace(form.Name)
	if code == "" || name == "" || form.MRP == nil || form.Price == nil {
		return Product{}, shared.NewError(shared.ErrValidation, msgRequired)
	}
	if !form.MRP.IsPositive() || !form.Price.IsPositive() {
		return Product{}, shared.NewError(shared.ErrValidation, "MRP and price must be greater than zero")
	}
	animal := catalog.OptionalText(form.Animal)
	if animal != nil && !catalog.IsAnimal(*animal) {
		return Product{}, shared.NewError(shared.ErrValidation, "Invalid value for animal")
	}

	p := Product{
		ItemCode:    code,
		Name:        name,
		Slug:        shared.Slugify(name),
		BrandID:     form.BrandID,
		Category:    catalog.OptionalText(form.Category),
		Animal:      animal,
		MRP:         *form.MRP,
		Price:       *form.Price,
		Description: catalog.OptionalText(form.Description),
		Image:       catalog.OptionalText(form.Image),
		Status:      form.Status,
	}
	if form.Stock != nil {
		p.Stock = *form.Stock
	}
	if p.Status == "" {
		p.Status = catalog.StatusActive
	}
	return p, nil
}
