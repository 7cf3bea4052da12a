package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/pkg/errors"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(ctx, idToken)
	token, _ := args.Get(0).(*auth.Token)
	return token, args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, email string) (entity.Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.Role), args.Error(1)
}

func echoRole(c echo.Context) error {
	return c.String(http.StatusOK, string(RoleFrom(c)))
}

func serve(h echo.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func validToken(email string) *auth.Token {
	return &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": email}}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		setup  func(v *mockVerifier)
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{
			name:   "rejected token",
			header: "Bearer bad",
			setup: func(v *mockVerifier) {
				v.On("VerifyIDToken", mock.Anything, "bad").Return(nil, fmt.Errorf("expired"))
			},
			status: http.StatusUnauthorized,
		},
		{
			name:   "token without email",
			header: "Bearer noemail",
			setup: func(v *mockVerifier) {
				v.On("VerifyIDToken", mock.Anything, "noemail").Return(&auth.Token{UID: "x", Claims: map[string]interface{}{}}, nil)
			},
			status: http.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(v *mockVerifier) {
				v.On("VerifyIDToken", mock.Anything, "good").Return(validToken("A@Example.com"), nil)
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &mockVerifier{}
			if tt.setup != nil {
				tt.setup(v)
			}
			m := NewAuthMiddleware(v)

			rec := serve(m.Authenticate(echoRole), tt.header)
			assert.Equal(t, tt.status, rec.Code)
			v.AssertExpectations(t)
		})
	}
}

func TestAuthenticate_LowercasesEmail(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifyIDToken", mock.Anything, "good").Return(validToken("A@Example.com"), nil)
	m := NewAuthMiddleware(v)

	var seen string
	rec := serve(m.Authenticate(func(c echo.Context) error {
		seen = IdentityFrom(c).Email
		return nil
	}), "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", seen)
}

func TestOptional_BadTokenIsAnonymous(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifyIDToken", mock.Anything, "bad").Return(nil, fmt.Errorf("expired"))
	m := NewAuthMiddleware(v)

	var present bool
	rec := serve(m.Optional(func(c echo.Context) error {
		id := IdentityFrom(c)
		present = id.Present()
		return nil
	}), "Bearer bad")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, present)
}

func chain(v TokenVerifier, r RoleResolver, roles ...entity.Role) echo.HandlerFunc {
	authMW := NewAuthMiddleware(v)
	roleMW := NewRoleMiddleware(r)
	return authMW.Authenticate(roleMW.Require(roles...)(echoRole))
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		allowed []entity.Role
		role    entity.Role
		err     error
		status  int
	}{
		{name: "matching role", allowed: []entity.Role{entity.RoleVendor}, role: entity.RoleVendor, status: http.StatusOK},
		{name: "any resolved role", role: entity.RoleUser, status: http.StatusOK},
		{name: "wrong role", allowed: []entity.Role{entity.RoleAdmin}, role: entity.RoleVendor, status: http.StatusForbidden},
		{name: "no record", allowed: []entity.Role{entity.RoleUser}, err: errors.RoleNotFound("a@example.com"), status: http.StatusForbidden},
		{name: "lookup failure", err: errors.RoleResolution("down", nil), status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &mockVerifier{}
			v.On("VerifyIDToken", mock.Anything, "good").Return(validToken("a@example.com"), nil)
			r := &mockResolver{}
			r.On("Resolve", mock.Anything, "a@example.com").Return(tt.role, tt.err).Once()

			rec := serve(chain(v, r, tt.allowed...), "Bearer good")
			assert.Equal(t, tt.status, rec.Code)
			r.AssertExpectations(t)
		})
	}
}

func TestAttach_AnonymousSkipsLookup(t *testing.T) {
	r := &mockResolver{}
	m := NewRoleMiddleware(r)

	rec := serve(m.Attach(echoRole), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	r.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}
