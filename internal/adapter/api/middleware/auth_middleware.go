package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
	"bazaarbondhu/pkg/response"
)

// Context keys set by Authenticate and Optional.
const (
	ContextUID     = "uid"
	ContextEmail   = "email"
	ContextName    = "name"
	ContextPicture = "picture"
	ContextRole    = "role"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// bearerToken reads the Authorization header. Websocket upgrades may pass the
// token as ?access_token= since browsers cannot set headers on them.
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" && strings.EqualFold(c.Request().Header.Get("Upgrade"), "websocket") {
		if t := c.QueryParam("access_token"); t != "" {
			return t, true
		}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func claimString(token *auth.Token, key string) string {
	if v, ok := token.Claims[key].(string); ok {
		return v
	}
	return ""
}

func (m *AuthMiddleware) verify(c echo.Context, idToken string) error {
	ctx := c.Request().Context()
	token, err := m.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	email := strings.ToLower(claimString(token, "email"))
	if email == "" {
		return errors.Unauthorized("Token carries no email", nil)
	}

	c.Set(ContextUID, token.UID)
	c.Set(ContextEmail, email)
	c.Set(ContextName, claimString(token, "name"))
	c.Set(ContextPicture, claimString(token, "picture"))

	l := logger.FromContext(ctx).With().Str("uid", token.UID).Logger()
	c.SetRequest(c.Request().WithContext(logger.WithContext(ctx, l)))
	return nil
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, ok := bearerToken(c)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}
		if err := m.verify(c, idToken); err != nil {
			return response.Error(c, err)
		}
		return next(c)
	}
}

// Optional verifies a bearer token when one is sent and otherwise carries on
// anonymously.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if idToken, ok := bearerToken(c); ok {
			_ = m.verify(c, idToken)
		}
		return next(c)
	}
}

// IdentityFrom reads what Authenticate stored on c.
func IdentityFrom(c echo.Context) access.Identity {
	str := func(key string) string {
		s, _ := c.Get(key).(string)
		return s
	}
	return access.Identity{
		UID:         str(ContextUID),
		Email:       str(ContextEmail),
		DisplayName: str(ContextName),
		PhotoURL:    str(ContextPicture),
	}
}
