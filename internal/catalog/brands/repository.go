package brands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

type Repository interface {
	List(ctx context.Context, search string) ([]Brand, error)
	Get(ctx context.Context, id int64) (Brand, error)
	Create(ctx context.Context, brand Brand) (Brand, error)
	Update(ctx context.Context, id int64, brand Brand) (Brand, error)
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectBrand = `SELECT b.id, b.name, b.slug, b.logo,
	(SELECT COUNT(*) FROM products p WHERE p.brand_id = b.id) AS product_count,
	b.created_at, b.updated_at
	FROM brands b`

func scanBrand(row pgx.Row) (Brand, error) {
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Logo, &b.ProductCount, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) List(ctx context.Context, search string) ([]Brand, error) {
	query := selectBrand
	args := []any{}
	if search != "" {
		query += ` WHERE b.name ILIKE $1 OR b.slug ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY b.name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Brand, error) {
	b, err := scanBrand(r.db.QueryRow(ctx, selectBrand+` WHERE b.id = $1`, id))
	return b, shared.MapNoRows(err)
}

func (r *repository) Create(ctx context.Context, brand Brand) (Brand, error) {
	query := `INSERT INTO brands (name, slug, logo) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, brand.Name, brand.Slug, brand.Logo).Scan(&brand.ID, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		return Brand{}, err
	}
	return brand, nil
}

func (r *repository) Update(ctx context.Context, id int64, brand Brand) (Brand, error) {
	query := `UPDATE brands SET name = $1, slug = $2, logo = $3, updated_at = NOW() WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, brand.Name, brand.Slug, brand.Logo, id)
	if err != nil {
		return Brand{}, err
	}
	if tag.RowsAffected() == 0 {
		return Brand{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountProducts(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE brand_id = $1`, id).Scan(&count)
	return count, err
}
