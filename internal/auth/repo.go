package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// Repository defines persistence operations for admin accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, email, passwordHash, role string) (*Admin, error)
	Update(ctx context.Context, id int64, email, passwordHash, role string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const adminColumns = `id, email, password_hash, role, created_at, updated_at`

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, shared.MapNoRows(err)
	}
	return &a, nil
}

// FindByEmail fetches an admin by lower-cased email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

// FindByID fetches an admin by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

// Create inserts a new admin.
func (r *PGRepository) Create(ctx context.Context, email, passwordHash, role string) (*Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, `INSERT INTO admins (email, password_hash, role)
		VALUES ($1, $2, $3) RETURNING `+adminColumns, email, passwordHash, role))
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.NewError(shared.ErrDuplicate, "Admin with this email already exists")
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// Update overwrites email, hash and role of an admin.
func (r *PGRepository) Update(ctx context.Context, id int64, email, passwordHash, role string) (*Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, `UPDATE admins
		SET email = $1, password_hash = $2, role = $3, updated_at = NOW()
		WHERE id = $4 RETURNING `+adminColumns, email, passwordHash, role, id))
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.NewError(shared.ErrDuplicate, "Admin with this email already exists")
		}
		return nil, err
	}
	return admin, nil
}

// List returns every admin ordered by id.
func (r *PGRepository) List(ctx context.Context) ([]Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *admin)
	}
	return admins, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
