package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
)

type contextKey struct{}

// ContextWithAdmin stores the authenticated admin.
func ContextWithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, contextKey{}, admin)
}

// AdminFromContext returns the admin set by RequireAdmin, or nil.
func AdminFromContext(ctx context.Context) *Admin {
	admin, _ := ctx.Value(contextKey{}).(*Admin)
	return admin
}

// TokenFromRequest reads a bearer token, falling back to the auth cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Guard rejects requests without a valid admin token.
type Guard struct {
	service    *Service
	cookieName string
	logger     *slog.Logger
}

// NewGuard constructs the admin guard.
func NewGuard(service *Service, cookieName string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{service: service, cookieName: cookieName, logger: logger}
}

// RequireAdmin is the chi middleware guarding the admin subtree.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := g.service.Verify(r.Context(), TokenFromRequest(r, g.cookieName))
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				g.logger.Error("verify admin token", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithAdmin(r.Context(), admin)))
	})
}
