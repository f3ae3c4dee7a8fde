package ingest

import "strings"

// Field is a canonical column name.
type Field string

const (
	FieldItemCode    Field = "item_code"
	FieldName        Field = "name"
	FieldBrand       Field = "brand"
	FieldCategory    Field = "category"
	FieldMRP         Field = "mrp"
	FieldPrice       Field = "price"
	FieldStock       Field = "stock"
	FieldDescription Field = "description"
)

// columnSynonyms is the single canonicalization table shared by both
// pipelines. Keys are lower-case header spellings seen in ERP exports.
var columnSynonyms = map[Field][]string{
	FieldItemCode:    {"item_code", "item code", "itemcode", "sku"},
	FieldName:        {"name", "product name", "productname", "product_name"},
	FieldBrand:       {"brand", "brandname", "brand name", "brand_name"},
	FieldCategory:    {"category", "product category", "product_category"},
	FieldMRP:         {"mrp", "max retail price", "max_retail_price"},
	FieldPrice:       {"price", "selling price", "selling_price"},
	FieldStock:       {"stock", "quantity", "qty", "available stock", "available_stock"},
	FieldDescription: {"description"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]Field {
	idx := make(map[string]Field)
	for field, names := range columnSynonyms {
		for _, name := range names {
			idx[name] = field
		}
	}
	return idx
}

// Fields accepted by each pipeline.
var (
	UploadFields = []Field{FieldItemCode, FieldName, FieldBrand, FieldCategory, FieldMRP, FieldPrice, FieldStock, FieldDescription}
	SyncFields   = []Field{FieldItemCode, FieldPrice, FieldStock}
)

// Normalized is a row keyed by canonical field names. Unknown headers are kept
// under their lower-cased spelling.
type Normalized map[string]string

// Get returns the value of a canonical field.
func (n Normalized) Get(f Field) string {
	return n[string(f)]
}

// CanonicalKey maps a raw header to its canonical key for the given field set.
func CanonicalKey(header string, fields []Field) string {
	key := strings.ToLower(strings.TrimSpace(header))
	if field, ok := synonymIndex[key]; ok && hasField(fields, field) {
		return string(field)
	}
	return key
}

// Normalize rekeys a record. Cells are applied in column order, so a later
// column wins when two headers map to the same key.
func Normalize(rec Record, fields []Field) Normalized {
	out := make(Normalized, len(rec))
	for _, cell := range rec {
		out[CanonicalKey(cell.Header, fields)] = cell.Value
	}
	return out
}

// TemplateHeaders lists the canonical headers of a pipeline, used for
// downloadable templates.
func TemplateHeaders(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func hasField(fields []Field, f Field) bool {
	for _, candidate := range fields {
		if candidate == f {
			return true
		}
	}
	return false
}
