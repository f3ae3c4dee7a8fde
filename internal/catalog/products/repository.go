package products

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectProduct = `SELECT p.id, p.item_code, p.name, p.slug, p.brand_id, b.name, b.slug, p.category, p.animal,
	p.mrp, p.price, p.stock, p.description, p.image, p.status, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN brands b ON p.brand_id = b.id`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ItemCode, &p.Name, &p.Slug, &p.BrandID, &p.BrandName, &p.BrandSlug, &p.Category, &p.Animal,
		&p.MRP, &p.Price, &p.Stock, &p.Description, &p.Image, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// where builds the shared filter clause for the list and count queries.
func where(filters catalog.ListFilters) (string, []any) {
	clause := ` WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		clause += ` AND (p.name ILIKE $` + n + ` OR p.item_code ILIKE $` + n + `)`
	}
	if filters.BrandID != nil {
		args = append(args, *filters.BrandID)
		clause += ` AND p.brand_id = $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		clause += ` AND p.status = $` + strconv.Itoa(len(args))
	}
	return clause, args
}

func (r *repository) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	clause, args := where(filters)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filters.Page, filters.Limit, total)
	query := selectProduct + clause + ` ORDER BY p.created_at DESC, p.id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id))
	return p, shared.MapNoRows(err)
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	query := `INSERT INTO products
		(item_code, name, slug, brand_id, category, animal, mrp, price, stock, description, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, p.ItemCode, p.Name, p.Slug, p.BrandID, p.Category, p.Animal,
		p.MRP, p.Price, p.Stock, p.Description, p.Image, p.Status).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	query := `UPDATE products SET
		item_code = $1, name = $2, slug = $3, brand_id = $4, category = $5, animal = $6,
		mrp = $7, price = $8, stock = $9, description = $10, image = $11, status = $12, updated_at = NOW()
		WHERE id = $13`
	tag, err := r.db.Exec(ctx, query, p.ItemCode, p.Name, p.Slug, p.BrandID, p.Category, p.Animal,
		p.MRP, p.Price, p.Stock, p.Description, p.Image, p.Status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
