package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleSuperAdmin is assigned when no role is given.
const RoleSuperAdmin = "super_admin"

// Admin is a back-office account.
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims is the JWT payload issued at login.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AdminUpdate lists the fields an operator may change. Nil fields are kept.
type AdminUpdate struct {
	Email    *string
	Password *string
	Role     *string
}
