package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swastik-pharma/vetstore/internal/auth"
	"github.com/swastik-pharma/vetstore/internal/shared"
	_ "github.com/swastik-pharma/vetstore/testing"
)

const testSecret = "test-secret"

type stubRepo struct {
	admins map[int64]*auth.Admin
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{admins: make(map[int64]*auth.Admin), nextID: 1}
}

func (s *stubRepo) add(t *testing.T, email, password string) *auth.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &auth.Admin{ID: s.nextID, Email: email, PasswordHash: string(hash), Role: auth.RoleSuperAdmin}
	s.admins[admin.ID] = admin
	s.nextID++
	return admin
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Admin, error) {
	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.Admin, error) {
	if a, ok := s.admins[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, email, hash, role string) (*auth.Admin, error) {
	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, shared.NewError(shared.ErrDuplicate, "Admin with this email already exists")
	}
	a := &auth.Admin{ID: s.nextID, Email: email, PasswordHash: hash, Role: role}
	s.admins[a.ID] = a
	s.nextID++
	return a, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, email, hash, role string) (*auth.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	a.Email, a.PasswordHash, a.Role = email, hash, role
	return a, nil
}

func (s *stubRepo) List(ctx context.Context) ([]auth.Admin, error) {
	out := make([]auth.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, *a)
	}
	return out, nil
}

func newRouter(repo auth.Repository, loginLimit int) (http.Handler, *auth.Service) {
	svc := auth.NewService(repo, testSecret, time.Hour)
	h := auth.NewHandler(nil, svc, auth.CookieOptions{Name: "admin_token"}, loginLimit)
	guard := auth.NewGuard(svc, "admin_token", nil)

	r := chi.NewRouter()
	r.Route("/api/admin/auth", func(r chi.Router) {
		h.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin)
			h.MountGuardedRoutes(r)
		})
	})
	return r, svc
}

func postLogin(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	repo := newStubRepo()
	repo.add(t, "admin@vetstore.local", "correct-horse")
	router, svc := newRouter(repo, 0)

	res := postLogin(router, `{"email":"  Admin@VetStore.local ","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "admin@vetstore.local", body.User.Email)
	assert.Equal(t, auth.RoleSuperAdmin, body.User.Role)
	assert.NotContains(t, res.Body.String(), "password")

	claims, err := svc.ParseToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.ID)
	assert.Equal(t, "1", claims.Subject)

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin_token", cookies[0].Name)
	assert.Equal(t, body.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newStubRepo()
	repo.add(t, "admin@vetstore.local", "correct-horse")
	router, _ := newRouter(repo, 0)

	for _, body := range []string{
		`{"email":"admin@vetstore.local","password":"wrong"}`,
		`{"email":"nobody@vetstore.local","password":"correct-horse"}`,
	} {
		res := postLogin(router, body)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Contains(t, res.Body.String(), "Invalid email or password")
		assert.Empty(t, res.Result().Cookies())
	}
}

func TestLoginRequiresFields(t *testing.T) {
	router, _ := newRouter(newStubRepo(), 0)

	res := postLogin(router, `{"email":"admin@vetstore.local"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Email and password are required")

	res = postLogin(router, `not json`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginRateLimited(t *testing.T) {
	router, _ := newRouter(newStubRepo(), 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, postLogin(router, `{"email":"a@b.c","password":"x"}`).Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestMeWithBearerAndCookie(t *testing.T) {
	repo := newStubRepo()
	admin := repo.add(t, "admin@vetstore.local", "correct-horse")
	router, svc := newRouter(repo, 0)
	token, _, err := svc.IssueToken(admin)
	require.NoError(t, err)

	bearer := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, bearer)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"email":"admin@vetstore.local"`)

	cookie := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	cookie.AddCookie(&http.Cookie{Name: "admin_token", Value: token})
	res = httptest.NewRecorder()
	router.ServeHTTP(res, cookie)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestMeRejectsMissingAndBadTokens(t *testing.T) {
	repo := newStubRepo()
	admin := repo.add(t, "admin@vetstore.local", "correct-horse")
	router, svc := newRouter(repo, 0)

	other := auth.NewService(repo, "another-secret", time.Hour)
	forged, _, err := other.IssueToken(admin)
	require.NoError(t, err)

	valid, _, err := svc.IssueToken(admin)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Bearer not-a-jwt",
		"forged":    "Bearer " + forged,
		"scheme":    "Basic " + valid,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		assert.Equal(t, http.StatusUnauthorized, res.Code, name)
		assert.Contains(t, res.Body.String(), `"error":"Unauthorized"`, name)
	}
}

func TestMeRejectsDeletedAdmin(t *testing.T) {
	repo := newStubRepo()
	admin := repo.add(t, "admin@vetstore.local", "correct-horse")
	router, svc := newRouter(repo, 0)
	token, _, err := svc.IssueToken(admin)
	require.NoError(t, err)
	delete(repo.admins, admin.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogoutExpiresCookie(t *testing.T) {
	router, _ := newRouter(newStubRepo(), 0)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin_token", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
