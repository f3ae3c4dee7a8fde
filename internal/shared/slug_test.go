package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Himalaya Wellness":   "himalaya-wellness",
		"  himalaya wellness": "himalaya-wellness",
		"HIMALAYA   Wellness": "himalaya-wellness",
		"Sheep & Goat":        "sheep-goat",
		"Café Pet-Care_Ltd.":  "cafe-pet-care-ltd",
		"Drools 3kg (Adult)":  "drools-3kg-adult",
		"---":                 "",
		"Royal Canin's Best":  "royal-canins-best",
		"हिमालय":              "हिमालय",
		"हिमालय Pet Care":     "हिमालय-pet-care",
		"皇家 宠物":               "皇家-宠物",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 50, 101)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 50, p.Offset())

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.TotalPages)
}
