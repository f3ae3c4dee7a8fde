package orders

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	Get(ctx context.Context, id int64) (Order, error)
	Items(ctx context.Context, orderID int64) ([]Item, error)
	UpdateStatus(ctx context.Context, id int64, update StatusUpdate) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectOrder = `SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
	o.shipping_address, o.total_amount, o.status, o.payment_status,
	(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id),
	o.created_at, o.updated_at
	FROM orders o`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.TotalAmount, &o.Status, &o.PaymentStatus, &o.ItemCount,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func where(filters ListFilters) (string, []any) {
	clause := ` WHERE 1=1`
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		clause += ` AND o.status = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		clause += ` AND (o.order_number ILIKE $` + n + ` OR o.customer_name ILIKE $` + n +
			` OR o.customer_email ILIKE $` + n + `)`
	}
	return clause, args
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	clause, args := where(filters)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filters.Page, filters.Limit, total)
	query := selectOrder + clause + ` ORDER BY o.created_at DESC, o.id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, selectOrder+` WHERE o.id = $1`, id))
	return o, shared.MapNoRows(err)
}

func (r *repository) Items(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, order_id, product_id, variant_id, product_name, quantity, price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName,
			&it.Quantity, &it.Price, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus leaves a nil field untouched.
func (r *repository) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET
		status = COALESCE($1, status),
		payment_status = COALESCE($2, payment_status),
		updated_at = NOW()
		WHERE id = $3`, update.Status, update.PaymentStatus, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
