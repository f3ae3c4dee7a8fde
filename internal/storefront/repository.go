package storefront

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// Repository reads the active catalog.
type Repository interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]productRow, error)
	ActiveVariants(ctx context.Context, productIDs []int64) (map[int64][]CardVariant, error)
	ListBrands(ctx context.Context, limit int) ([]brandRow, error)
	BrandBySlug(ctx context.Context, slug string) (Brand, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context, q ProductQuery) ([]productRow, error) {
	query := `SELECT p.id, p.item_code, p.name, p.slug, p.category, p.animal, b.name,
		p.mrp, p.price, p.stock, p.image, p.status, p.created_at
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.id
		WHERE p.status = 'active'`
	args := []any{}
	if q.Category != "" {
		args = append(args, q.Category)
		query += ` AND p.category = $` + strconv.Itoa(len(args))
	}
	if q.BrandID != nil {
		args = append(args, *q.BrandID)
		query += ` AND p.brand_id = $` + strconv.Itoa(len(args))
	}
	if q.Animal != "" {
		args = append(args, q.Animal)
		query += ` AND p.animal = $` + strconv.Itoa(len(args))
	}
	switch q.Sort {
	case SortPriceAsc:
		query += ` ORDER BY p.price ASC, p.id`
	case SortPriceDesc:
		query += ` ORDER BY p.price DESC, p.id`
	default:
		query += ` ORDER BY p.created_at DESC, p.id DESC`
	}
	args = append(args, q.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storefront products: %w", err)
	}
	defer rows.Close()

	var out []productRow
	for rows.Next() {
		var p productRow
		if err := rows.Scan(&p.ID, &p.ItemCode, &p.Name, &p.Slug, &p.Category, &p.Animal, &p.BrandName,
			&p.MRP, &p.Price, &p.Stock, &p.Image, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) ActiveVariants(ctx context.Context, productIDs []int64) (map[int64][]CardVariant, error) {
	out := make(map[int64][]CardVariant, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, product_id, name, weight, unit, price, mrp, stock, is_default
		FROM product_variants
		WHERE product_id = ANY($1) AND status = 'active'
		ORDER BY is_default DESC, name ASC`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("storefront variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v         CardVariant
			productID int64
		)
		if err := rows.Scan(&v.ID, &productID, &v.Name, &v.Weight, &v.Unit, &v.Price, &v.MRP, &v.Stock, &v.IsDefault); err != nil {
			return nil, err
		}
		out[productID] = append(out[productID], v)
	}
	return out, rows.Err()
}

func (r *repository) ListBrands(ctx context.Context, limit int) ([]brandRow, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.name, b.slug, b.logo, COUNT(p.id) AS product_count
		FROM brands b
		INNER JOIN products p ON p.brand_id = b.id AND p.status = 'active'
		GROUP BY b.id, b.name, b.slug, b.logo
		ORDER BY b.name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("storefront brands: %w", err)
	}
	defer rows.Close()

	var out []brandRow
	for rows.Next() {
		var b brandRow
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Logo, &b.ProductCount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) BrandBySlug(ctx context.Context, slug string) (Brand, error) {
	var b Brand
	err := r.db.QueryRow(ctx, `SELECT id, name, slug, logo FROM brands WHERE slug = $1`, slug).
		Scan(&b.ID, &b.Name, &b.Slug, &b.Logo)
	return b, shared.MapNoRows(err)
}
