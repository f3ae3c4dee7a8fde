package brands

type BrandForm struct {
	Name string  `json:"name" validate:"required"`
	Logo *string `json:"logo"`
}
