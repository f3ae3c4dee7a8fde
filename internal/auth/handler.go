package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

// CookieOptions controls the auth cookie written at login.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	cookie         CookieOptions
	loginRateLimit int
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance. loginRateLimit is the number of
// login attempts allowed per IP per minute; zero disables the limit.
func NewHandler(logger *slog.Logger, service *Service, cookie CookieOptions, loginRateLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		cookie:         cookie,
		loginRateLimit: loginRateLimit,
		validator:      validator.New(),
	}
}

// MountRoutes registers the unguarded auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	login := r.With()
	if h.loginRateLimit > 0 {
		login = r.With(httprate.LimitByIP(h.loginRateLimit, time.Minute))
	}
	login.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// MountGuardedRoutes registers auth routes that need an admin in context.
func (h *Handler) MountGuardedRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *Admin `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Email and password are required")
		return
	}

	admin, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		h.logger.Error("authenticate admin", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	token, expiresAt, err := h.service.IssueToken(admin)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.service.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("admin login", slog.Int64("admin_id", admin.ID))
	httpx.JSON(w, http.StatusOK, loginResponse{Success: true, Token: token, User: admin})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	admin := AdminFromContext(r.Context())
	if admin == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]*Admin{"user": admin})
}
