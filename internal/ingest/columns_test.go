package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKeyUploadSynonyms(t *testing.T) {
	cases := map[string]string{
		"Item Code":        "item_code",
		"ITEMCODE":         "item_code",
		"sku":              "item_code",
		" SKU ":            "item_code",
		"Product Name":     "name",
		"product_name":     "name",
		"Brand Name":       "brand",
		"BrandName":        "brand",
		"Product Category": "category",
		"Max Retail Price": "mrp",
		"selling_price":    "price",
		"Selling Price":    "price",
		"QTY":              "stock",
		"Available Stock":  "stock",
		"Quantity":         "stock",
		"Description":      "description",
		"HSN Code":         "hsn code",
		"Image URL":        "image url",
	}
	for header, want := range cases {
		assert.Equal(t, want, CanonicalKey(header, UploadFields), header)
	}
}

func TestCanonicalKeySyncIgnoresCatalogFields(t *testing.T) {
	assert.Equal(t, "item_code", CanonicalKey("Item Code", SyncFields))
	assert.Equal(t, "price", CanonicalKey("Selling Price", SyncFields))
	assert.Equal(t, "stock", CanonicalKey("available_stock", SyncFields))
	// Synonyms of fields outside the sync set pass through lower-cased.
	assert.Equal(t, "brand name", CanonicalKey("Brand Name", SyncFields))
	assert.Equal(t, "product name", CanonicalKey("Product Name", SyncFields))
}

func TestNormalizeEquivalentHeaders(t *testing.T) {
	a := Normalize(Record{{"Item Code", "P1"}, {"Qty", "4"}}, UploadFields)
	b := Normalize(Record{{"sku", "P1"}, {"quantity", "4"}}, UploadFields)
	assert.Equal(t, a, b)
	assert.Equal(t, Normalized{"item_code": "P1", "stock": "4"}, a)
}

func TestNormalizeLaterColumnWins(t *testing.T) {
	row := Normalize(Record{{"SKU", "OLD"}, {"Item Code", "NEW"}}, SyncFields)
	assert.Equal(t, "NEW", row.Get(FieldItemCode))
}

func TestSynonymTableHasNoCrossFieldDuplicates(t *testing.T) {
	seen := map[string]Field{}
	for field, names := range columnSynonyms {
		for _, name := range names {
			if prev, ok := seen[name]; ok {
				t.Fatalf("synonym %q mapped to both %s and %s", name, prev, field)
			}
			seen[name] = field
		}
	}
	assert.Len(t, synonymIndex, len(seen))
}

func TestTemplateHeaders(t *testing.T) {
	assert.Equal(t, []string{"item_code", "price", "stock"}, TemplateHeaders(SyncFields))
	assert.Len(t, TemplateHeaders(UploadFields), 8)
}
