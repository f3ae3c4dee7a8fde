package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// BcryptCost is the work factor used for stored password hashes.
const BcryptCost = 10

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("auth: invalid token")

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a new Service signing tokens with secret.
func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return admin, nil
}

// IssueToken signs an HS256 token for the admin.
func (s *Service) IssueToken(admin *Admin) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		ID:    admin.ID,
		Email: admin.Email,
		Role:  admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry.
func (s *Service) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify parses the token and re-loads the admin it names, so tokens of
// deleted admins stop working immediately.
func (s *Service) Verify(ctx context.Context, token string) (*Admin, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	admin, err := s.repo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return admin, nil
}

// CreateAdmin hashes the password and stores a new admin.
func (s *Service) CreateAdmin(ctx context.Context, email, password, role string) (*Admin, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, shared.NewError(shared.ErrValidation, "Email and password are required")
	}
	if role == "" {
		role = RoleSuperAdmin
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, hash, role)
}

// UpdateAdmin applies the non-nil fields of upd to the admin with email.
func (s *Service) UpdateAdmin(ctx context.Context, email string, upd AdminUpdate) (*Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewError(shared.ErrNotFound, "Admin not found")
		}
		return nil, err
	}
	if upd.Email == nil && upd.Password == nil && upd.Role == nil {
		return nil, shared.NewError(shared.ErrValidation, "No fields to update")
	}

	newEmail, hash, role := admin.Email, admin.PasswordHash, admin.Role
	if upd.Email != nil {
		newEmail = NormalizeEmail(*upd.Email)
	}
	if upd.Password != nil {
		if hash, err = HashPassword(*upd.Password); err != nil {
			return nil, err
		}
	}
	if upd.Role != nil && *upd.Role != "" {
		role = *upd.Role
	}
	return s.repo.Update(ctx, admin.ID, newEmail, hash, role)
}

// ListAdmins returns all admins.
func (s *Service) ListAdmins(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

// HashPassword returns a bcrypt hash at BcryptCost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
