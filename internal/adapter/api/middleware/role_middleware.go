package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/response"
)

type RoleResolver interface {
	Resolve(ctx context.Context, email string) (entity.Role, error)
}

// RoleMiddleware gates routes on the caller's stored role. It runs after
// Authenticate and never substitutes a default role.
type RoleMiddleware struct {
	resolver RoleResolver
}

func NewRoleMiddleware(resolver RoleResolver) *RoleMiddleware {
	return &RoleMiddleware{
		resolver: resolver,
	}
}

func (m *RoleMiddleware) resolve(c echo.Context) (entity.Role, error) {
	if role, ok := c.Get(ContextRole).(entity.Role); ok && role.Valid() {
		return role, nil
	}
	email, _ := c.Get(ContextEmail).(string)
	if email == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	role, err := m.resolver.Resolve(c.Request().Context(), email)
	if err != nil {
		return "", err
	}
	c.Set(ContextRole, role)
	return role, nil
}

// Require admits only callers whose role is one of roles; with no roles any
// resolved role passes. Failed or missing resolution is 403.
func (m *RoleMiddleware) Require(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := m.resolve(c)
			if err != nil {
				if errors.Is(err, errors.CodeUnauthorized) {
					return response.Error(c, err)
				}
				return response.Error(c, errors.Forbidden("Role could not be resolved", err))
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden("Insufficient role for this resource", nil))
		}
	}
}

// Attach resolves the role when the caller is signed in, for handlers that
// change behaviour by role but admit anonymous callers.
func (m *RoleMiddleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if email, _ := c.Get(ContextEmail).(string); email != "" {
			_, _ = m.resolve(c)
		}
		return next(c)
	}
}

func RoleFrom(c echo.Context) entity.Role {
	role, _ := c.Get(ContextRole).(entity.Role)
	return role
}
