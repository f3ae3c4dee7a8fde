package storefront

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is the whole-percent markdown from mrp to price, or 0 when the
// price is not below mrp.
func Discount(mrp, price decimal.Decimal) int64 {
	if !mrp.IsPositive() || !mrp.GreaterThan(price) {
		return 0
	}
	return mrp.Sub(price).Div(mrp).Mul(hundred).Round(0).IntPart()
}

// buildCard applies the display rules: the default variant (else the first)
// supplies price, mrp and stock, and products without variants get a
// synthetic Standard variant.
func buildCard(p productRow, variants []CardVariant) ProductCard {
	card := ProductCard{
		ID:        p.ID,
		ItemCode:  p.ItemCode,
		Name:      p.Name,
		Slug:      p.Slug,
		Category:  p.Category,
		Animal:    p.Animal,
		BrandName: p.BrandName,
		Price:     p.Price,
		MRP:       p.MRP,
		Stock:     p.Stock,
		Image:     PlaceholderImage,
		Status:    p.Status,
		Href:      "/products/" + p.Slug,
		Rating:    defaultRating,
	}
	if p.Image != nil && *p.Image != "" {
		card.Image = *p.Image
	}

	if len(variants) == 0 {
		card.Variants = []CardVariant{{
			Name:      "Standard",
			Price:     p.Price,
			MRP:       p.MRP,
			Stock:     p.Stock,
			IsDefault: true,
		}}
	} else {
		card.Variants = variants
		display := variants[0]
		for _, v := range variants {
			if v.IsDefault {
				display = v
				break
			}
		}
		card.Price, card.MRP, card.Stock = display.Price, display.MRP, display.Stock
	}
	card.Discount = Discount(card.MRP, card.Price)
	return card
}

func buildBrandCard(b brandRow) BrandCard {
	card := BrandCard{
		ID:           b.ID,
		Name:         b.Name,
		Slug:         b.Slug,
		ProductCount: b.ProductCount,
		Href:         "/brands/" + b.Slug,
	}
	if b.Logo != nil && *b.Logo != "" {
		card.Logo = *b.Logo
	} else {
		card.Logo = placeholderLogoURL + url.PathEscape(initials(b.Name))
	}
	return card
}

func initials(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
