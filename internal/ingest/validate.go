package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	msgMissingRequired = "Missing required fields (item_code, name, mrp, price)"
	msgInvalidPrice    = "Invalid price values"
)

// RowError rejects a single spreadsheet row. Row is the 1-based spreadsheet
// line, counting the header.
type RowError struct {
	Row     int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// UploadRow is a validated bulk upload row. Optional text fields are nil when blank.
type UploadRow struct {
	ItemCode    string
	Name        string
	Brand       *string
	Category    *string
	MRP         decimal.Decimal
	Price       decimal.Decimal
	Stock       int
	Description *string
}

// ValidateUpload checks and coerces one normalized upload row. index is the
// zero-based position among data rows.
func ValidateUpload(row Normalized, index int) (UploadRow, error) {
	itemCode := strings.TrimSpace(row.Get(FieldItemCode))
	name := strings.TrimSpace(row.Get(FieldName))
	rawMRP := strings.TrimSpace(row.Get(FieldMRP))
	rawPrice := strings.TrimSpace(row.Get(FieldPrice))
	if itemCode == "" || name == "" || rawMRP == "" || rawPrice == "" {
		return UploadRow{}, &RowError{Row: index + 2, Message: msgMissingRequired}
	}

	mrp, errMRP := parseDecimal(rawMRP)
	price, errPrice := parseDecimal(rawPrice)
	if errMRP != nil || errPrice != nil {
		return UploadRow{}, &RowError{Row: index + 2, Message: msgInvalidPrice}
	}

	stock, _ := parseStock(row.Get(FieldStock))

	return UploadRow{
		ItemCode:    itemCode,
		Name:        name,
		Brand:       optional(row.Get(FieldBrand)),
		Category:    optional(row.Get(FieldCategory)),
		MRP:         mrp,
		Price:       price,
		Stock:       stock,
		Description: optional(row.Get(FieldDescription)),
	}, nil
}

// SyncRow is a stock-sync row. Price and Stock are set only when they parsed.
type SyncRow struct {
	Row      int
	ItemCode string
	Price    *decimal.Decimal
	Stock    *int
	// Missing marks rows without an item code.
	Missing bool
}

// HasChanges reports whether the row carries any field to write.
func (r SyncRow) HasChanges() bool {
	return r.Price != nil || r.Stock != nil
}

// ValidateSync coerces one normalized sync row.
func ValidateSync(row Normalized, index int) SyncRow {
	out := SyncRow{Row: index + 2, ItemCode: strings.TrimSpace(row.Get(FieldItemCode))}
	if out.ItemCode == "" {
		out.Missing = true
		return out
	}
	if raw := strings.TrimSpace(row.Get(FieldPrice)); raw != "" {
		if price, err := parseDecimal(raw); err == nil {
			out.Price = &price
		}
	}
	if stock, ok := parseStock(row.Get(FieldStock)); ok {
		out.Stock = &stock
	}
	return out
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return decimal.NewFromString(cleaned)
}

// parseStock accepts integers and truncates decimals. Negative quantities
// clamp to zero.
func parseStock(raw string) (int, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		d, derr := decimal.NewFromString(cleaned)
		if derr != nil {
			return 0, false
		}
		n = int(d.IntPart())
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

func optional(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}
