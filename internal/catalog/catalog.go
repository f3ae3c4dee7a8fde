// Package catalog holds the types shared by the brand, product and variant
// admin packages.
package catalog

import (
	"context"
	"strings"
)

// Listing defaults for admin tables.
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200
)

// Product statuses.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out_of_stock"
)

// Animal is one entry of the fixed storefront taxonomy.
type Animal struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Animals lists the taxonomy in display order.
var Animals = []Animal{
	{Name: "Dog", Slug: "dog"},
	{Name: "Cat", Slug: "cat"},
	{Name: "Large Animals", Slug: "large-animals"},
	{Name: "Sheep & Goat", Slug: "sheep-goat"},
	{Name: "Poultry", Slug: "poultry"},
	{Name: "Horse", Slug: "horse"},
}

// IsAnimal reports whether slug names a known animal.
func IsAnimal(slug string) bool {
	for _, a := range Animals {
		if a.Slug == slug {
			return true
		}
	}
	return false
}

// ListFilters narrows admin product listings.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	BrandID *int64
	Status  string
}

// Invalidator drops cached storefront reads after a catalog write.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// NopInvalidator is used when no cache is configured.
type NopInvalidator struct{}

// Bump does nothing.
func (NopInvalidator) Bump(context.Context) error { return nil }

// OptionalText trims s and maps blanks to nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
