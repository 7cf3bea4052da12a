package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/adapter/api"
	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/adapter/cache"
	"bazaarbondhu/internal/adapter/repository/memory"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/response"
)

// fakeVerifier accepts tokens of the form "tok:<email>".
type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	email, ok := strings.CutPrefix(idToken, "tok:")
	if !ok || email == "" {
		return nil, fmt.Errorf("bad token")
	}
	return &auth.Token{UID: "uid-" + email, Claims: map[string]interface{}{"email": email, "name": email}}, nil
}

type testServer struct {
	e     *echo.Echo
	users repository.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	ads := memory.NewAdvertisementRepository()
	reviews := memory.NewReviewRepository()
	watchlist := memory.NewWatchlistRepository()
	orders := memory.NewOrderRepository()

	roles := usecase.NewRoleResolver(users, cache.NewMemoryRoleCache(), time.Minute)
	handler.Setup(
		usecase.NewUserUseCase(users, roles, nil),
		usecase.NewProductUseCase(products, nil),
		usecase.NewReviewUseCase(reviews, products),
		usecase.NewWatchlistUseCase(watchlist, products),
		usecase.NewAdvertisementUseCase(ads, nil),
		usecase.NewPaymentUseCase(orders, products, service.NewSimulatedPaymentService(), nil, "bdt"),
		usecase.NewStatsUseCase(users, products, ads, orders, reviews, watchlist),
	)
	handler.SetupHealthHandler(nil)

	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(fakeVerifier{}), middleware.NewRoleMiddleware(roles), nil)

	return &testServer{e: e, users: users}
}

func (s *testServer) addUser(t *testing.T, email string, role entity.Role) {
	require.NoError(t, s.users.Create(context.Background(), &entity.User{Email: email, Role: role}))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, email string, body interface{}) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if email != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok:"+email)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

type productPage struct {
	Items []entity.Product `json:"items"`
	Total int64            `json:"total"`
}

func decode[T any](t *testing.T, env envelope) T {
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

const (
	vendorEmail = "vendor@example.com"
	adminEmail  = "admin@example.com"
	userEmail   = "user@example.com"
)

func seeded(t *testing.T) *testServer {
	s := newTestServer(t)
	s.addUser(t, vendorEmail, entity.RoleVendor)
	s.addUser(t, adminEmail, entity.RoleAdmin)
	s.addUser(t, userEmail, entity.RoleUser)
	return s
}

func createProduct(t *testing.T, s *testServer, email, item string) entity.Product {
	status, env := s.do(t, http.MethodPost, "/v1/products", email, map[string]interface{}{
		"marketName":   "Karwan Bazar",
		"itemName":     item,
		"pricePerUnit": 50,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	return decode[entity.Product](t, env)
}

func TestProductModerationOverHTTP(t *testing.T) {
	s := seeded(t)

	p := createProduct(t, s, vendorEmail, "Onion")
	assert.Equal(t, entity.StatusPending, p.Status)

	status, env := s.do(t, http.MethodGet, "/v1/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[productPage](t, env).Items)

	status, _ = s.do(t, http.MethodPatch, "/v1/products/"+p.ID+"/status", adminEmail, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodGet, "/v1/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[productPage](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, p.ID, page.Items[0].ID)
}

func TestRejectWithoutFeedbackIsValidationError(t *testing.T) {
	s := seeded(t)
	p := createProduct(t, s, vendorEmail, "Rice")

	status, env := s.do(t, http.MethodPatch, "/v1/products/"+p.ID+"/reject", adminEmail, map[string]string{"reason": "Blurry"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	status, env = s.do(t, http.MethodGet, "/v1/products/"+p.ID, adminEmail, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.StatusPending, decode[entity.Product](t, env).Status)
}

func TestModerationIsAdminOnly(t *testing.T) {
	s := seeded(t)
	p := createProduct(t, s, vendorEmail, "Egg")

	for _, email := range []string{vendorEmail, userEmail} {
		status, _ := s.do(t, http.MethodPatch, "/v1/products/"+p.ID+"/status", email, map[string]string{"status": "approved"})
		assert.Equal(t, http.StatusForbidden, status, email)
	}
}

func TestWatchlistRejectsVendorAndAdmin(t *testing.T) {
	s := seeded(t)
	p := createProduct(t, s, vendorEmail, "Garlic")
	status, _ := s.do(t, http.MethodPatch, "/v1/products/"+p.ID+"/status", adminEmail, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)

	for _, email := range []string{vendorEmail, adminEmail} {
		status, env := s.do(t, http.MethodPost, "/v1/watchlist", email, map[string]string{"productId": p.ID})
		assert.Equal(t, http.StatusForbidden, status, email)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	}

	status, _ = s.do(t, http.MethodPost, "/v1/watchlist", userEmail, map[string]string{"productId": p.ID})
	assert.Equal(t, http.StatusCreated, status)
}

func TestUnknownAccountFailsClosed(t *testing.T) {
	s := seeded(t)

	status, _ := s.do(t, http.MethodGet, "/v1/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/v1/stats", "stranger@example.com", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(t, http.MethodGet, "/v1/users/role", "stranger@example.com", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROLE_NOT_FOUND", env.Error.Code)

	status, env = s.do(t, http.MethodGet, "/v1/users/role", vendorEmail, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"vendor"`)
}

func TestVendorListIgnoresForeignVendorEmail(t *testing.T) {
	s := seeded(t)
	s.addUser(t, "other@example.com", entity.RoleVendor)
	createProduct(t, s, vendorEmail, "Potato")
	createProduct(t, s, "other@example.com", "Fish")

	status, env := s.do(t, http.MethodGet, "/v1/products?view=mine&vendorEmail=other@example.com", vendorEmail, nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[productPage](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Potato", page.Items[0].ItemName)

	status, _ = s.do(t, http.MethodGet, "/v1/products?view=all", vendorEmail, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodGet, "/v1/products?view=all", adminEmail, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, decode[productPage](t, env).Total)
}

func TestSyncUserRegistersAsUser(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/v1/users", "new@example.com", map[string]string{})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, status)

	status, env := s.do(t, http.MethodGet, "/v1/users/role", "new@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"user"`)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUnknownPathsAreNotFound(t *testing.T) {
	s := seeded(t)

	for _, path := range []string{"/v1/products/x/unknown", "/v1/advertisements/x/unknown", "/v1/nothing-here"} {
		for _, email := range []string{"", userEmail} {
			status, _ := s.do(t, http.MethodGet, path, email, nil)
			assert.Equal(t, http.StatusNotFound, status, "%s as %q", path, email)
		}
	}
}

func TestVendorEditsOwnAdvertisement(t *testing.T) {
	s := seeded(t)
	s.addUser(t, "other@example.com", entity.RoleVendor)

	status, env := s.do(t, http.MethodPost, "/v1/advertisements", vendorEmail, map[string]string{"title": "Winter sale"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	ad := decode[entity.Advertisement](t, env)

	status, _ = s.do(t, http.MethodPatch, "/v1/advertisements/"+ad.ID+"/status", adminEmail, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPut, "/v1/advertisements/"+ad.ID, "other@example.com", map[string]string{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodPut, "/v1/advertisements/"+ad.ID, adminEmail, map[string]string{"title": "Edited"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodPut, "/v1/advertisements/"+ad.ID, vendorEmail, map[string]string{"title": "Spring sale"})
	require.Equal(t, http.StatusOK, status, env.Error)
	updated := decode[entity.Advertisement](t, env)
	assert.Equal(t, "Spring sale", updated.Title)
	assert.Equal(t, entity.StatusPending, updated.Status, "an edit goes back to review")

	status, env = s.do(t, http.MethodGet, "/v1/advertisements/current", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]entity.Advertisement](t, env))
}
