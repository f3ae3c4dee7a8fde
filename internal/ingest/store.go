package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/swastik-pharma/vetstore/internal/platform/db"
)

// ProductFields are the product columns written by bulk upload. Upload never
// writes image, status or animal.
type ProductFields struct {
	ItemCode    string
	Name        string
	Slug        string
	BrandID     *int64
	Category    *string
	MRP         decimal.Decimal
	Price       decimal.Decimal
	Stock       int
	Description *string
}

// Store is the persistence surface used by both pipelines. Every call is an
// independent statement; no transaction spans a run.
type Store interface {
	FindBrandIDBySlug(ctx context.Context, slug string) (int64, bool, error)
	// CreateBrand inserts a brand unless the slug exists, reporting whether a row was created.
	CreateBrand(ctx context.Context, name, slug string) (int64, bool, error)
	FindProductIDByItemCode(ctx context.Context, itemCode string) (int64, bool, error)
	InsertProduct(ctx context.Context, p ProductFields) (int64, error)
	UpdateProduct(ctx context.Context, id int64, p ProductFields) error
	// UpdatePriceStock writes the non-nil fields only.
	UpdatePriceStock(ctx context.Context, id int64, price *decimal.Decimal, stock *int) error
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db db.DBTX
}

// NewStore constructs the PostgreSQL store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool}
}

// FindBrandIDBySlug looks a brand up by its natural key.
func (s *PGStore) FindBrandIDBySlug(ctx context.Context, slug string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM brands WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find brand: %w", err)
	}
	return id, true, nil
}

// CreateBrand inserts the brand, falling back to the existing row when a
// concurrent upload created the same slug first.
func (s *PGStore) CreateBrand(ctx context.Context, name, slug string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, `INSERT INTO brands (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING RETURNING id`, name, slug).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("create brand: %w", err)
	}
	id, found, err := s.FindBrandIDBySlug(ctx, slug)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, fmt.Errorf("create brand: slug %q vanished", slug)
	}
	return id, false, nil
}

// FindProductIDByItemCode resolves a product by item code.
func (s *PGStore) FindProductIDByItemCode(ctx context.Context, itemCode string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM products WHERE item_code = $1`, itemCode).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find product: %w", err)
	}
	return id, true, nil
}

// InsertProduct creates an active product.
func (s *PGStore) InsertProduct(ctx context.Context, p ProductFields) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `INSERT INTO products
		(item_code, name, slug, brand_id, category, mrp, price, stock, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active') RETURNING id`,
		p.ItemCode, p.Name, p.Slug, p.BrandID, p.Category, p.MRP, p.Price, p.Stock, p.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// UpdateProduct overwrites the upload-managed columns of a product.
func (s *PGStore) UpdateProduct(ctx context.Context, id int64, p ProductFields) error {
	_, err := s.db.Exec(ctx, `UPDATE products SET
		name = $1, slug = $2, brand_id = $3, category = $4,
		mrp = $5, price = $6, stock = $7, description = $8, updated_at = NOW()
		WHERE id = $9`,
		p.Name, p.Slug, p.BrandID, p.Category, p.MRP, p.Price, p.Stock, p.Description, id,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdatePriceStock sets price and/or stock, leaving every other column alone.
func (s *PGStore) UpdatePriceStock(ctx context.Context, id int64, price *decimal.Decimal, stock *int) error {
	_, err := s.db.Exec(ctx, `UPDATE products SET
		price = COALESCE($1::numeric, price),
		stock = COALESCE($2::integer, stock),
		updated_at = NOW()
		WHERE id = $3`, price, stock, id)
	if err != nil {
		return fmt.Errorf("sync product: %w", err)
	}
	return nil
}

var _ Store = (*PGStore)(nil)
