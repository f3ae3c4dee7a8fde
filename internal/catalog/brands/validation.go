package brands

import (
	"strings"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

func (s *Service) normalize(form BrandForm) (Brand, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return Brand{}, shared.NewError(shared.ErrValidation, "Brand name is required")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return Brand{}, shared.NewError(shared.ErrValidation, "Brand name must contain letters or digits")
	}
	return Brand{Name: name, Slug: slug, Logo: catalog.OptionalText(form.Logo)}, nil
}
