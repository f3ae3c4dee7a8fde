package variants

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/platform/db"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

// Store is the set of variant queries that can run inside a transaction.
type Store interface {
	ListByProduct(ctx context.Context, productID int64) ([]Variant, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
	Insert(ctx context.Context, v Variant) (Variant, error)
	Update(ctx context.Context, v Variant) (Variant, error)
	ClearDefaults(ctx context.Context, productID, exceptID int64) error
	Delete(ctx context.Context, productID, id int64) error
}

// Repository is a Store that can also open a transaction.
type Repository interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}

type repository struct {
	pool *pgxpool.Pool
	db   db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, db: pool}
}

func (r *repository) InTx(ctx context.Context, fn func(Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{pool: r.pool, db: tx})
	})
}

const variantColumns = `id, product_id, name, weight, unit, price, mrp, stock, sku, is_default, status, created_at, updated_at`

func scanVariant(row pgx.Row) (Variant, error) {
	var v Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.Weight, &v.Unit, &v.Price, &v.MRP, &v.Stock,
		&v.SKU, &v.IsDefault, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]Variant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+variantColumns+` FROM product_variants
		WHERE product_id = $1 ORDER BY is_default DESC, name ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := []Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	return exists, err
}

func (r *repository) Insert(ctx context.Context, v Variant) (Variant, error) {
	return scanVariant(r.db.QueryRow(ctx, `INSERT INTO product_variants
		(product_id, name, weight, unit, price, mrp, stock, sku, is_default, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+variantColumns,
		v.ProductID, v.Name, v.Weight, v.Unit, v.Price, v.MRP, v.Stock, v.SKU, v.IsDefault, v.Status))
}

func (r *repository) Update(ctx context.Context, v Variant) (Variant, error) {
	updated, err := scanVariant(r.db.QueryRow(ctx, `UPDATE product_variants SET
		name = $1, weight = $2, unit = $3, price = $4, mrp = $5, stock = $6,
		sku = $7, is_default = $8, status = $9, updated_at = NOW()
		WHERE id = $10 AND product_id = $11
		RETURNING `+variantColumns,
		v.Name, v.Weight, v.Unit, v.Price, v.MRP, v.Stock, v.SKU, v.IsDefault, v.Status, v.ID, v.ProductID))
	return updated, shared.MapNoRows(err)
}

func (r *repository) ClearDefaults(ctx context.Context, productID, exceptID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE product_variants SET is_default = FALSE, updated_at = NOW()
		WHERE product_id = $1 AND id <> $2 AND is_default`, productID, exceptID)
	return err
}

func (r *repository) Delete(ctx context.Context, productID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product_variants WHERE id = $1 AND product_id = $2`, id, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
