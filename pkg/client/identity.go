package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/access"
)

// Credentials is a signed-in session as issued by the identity provider.
type Credentials struct {
	Identity     access.Identity `json:"identity"`
	IDToken      string          `json:"id_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// Expired reports whether the ID token is within skew of expiring.
func (c *Credentials) Expired(now time.Time, skew time.Duration) bool {
	return c.ExpiresAt.IsZero() || !now.Add(skew).Before(c.ExpiresAt)
}

// IdentityProvider signs accounts in and refreshes their tokens.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error)
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	// SignInWithIdp exchanges a federated provider's id token, e.g. from
	// Google, for a session.
	SignInWithIdp(ctx context.Context, providerID, providerToken string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
}

// FirebaseIdentityProvider talks to the Firebase Auth REST API.
type FirebaseIdentityProvider struct {
	apiKey       string
	identityBase string
	tokenBase    string
	http         *http.Client
	now          func() time.Time
}

func NewFirebaseIdentityProvider(cfg Config) *FirebaseIdentityProvider {
	cfg = cfg.withDefaults()
	return &FirebaseIdentityProvider{
		apiKey:       cfg.FirebaseAPIKey,
		identityBase: strings.TrimRight(cfg.IdentityBaseURL, "/"),
		tokenBase:    strings.TrimRight(cfg.TokenBaseURL, "/"),
		http:         cfg.HTTPClient,
		now:          time.Now,
	}
}

type identityResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type identityErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error) {
	return p.account(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *FirebaseIdentityProvider) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	return p.account(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *FirebaseIdentityProvider) SignInWithIdp(ctx context.Context, providerID, providerToken string) (*Credentials, error) {
	postBody := url.Values{}
	postBody.Set("id_token", providerToken)
	postBody.Set("providerId", providerID)
	return p.account(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":          postBody.Encode(),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	})
}

func (p *FirebaseIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenBase+"/token?key="+url.QueryEscape(p.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := p.roundTrip(req, &out); err != nil {
		return nil, err
	}
	return &Credentials{
		Identity:     access.Identity{UID: out.UserID},
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    p.expiry(out.ExpiresIn),
	}, nil
}

func (p *FirebaseIdentityProvider) account(ctx context.Context, method string, body map[string]interface{}) (*Credentials, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.identityBase+"/"+method+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out identityResponse
	if err := p.roundTrip(req, &out); err != nil {
		return nil, err
	}
	return &Credentials{
		Identity: access.Identity{
			UID:         out.LocalID,
			Email:       strings.ToLower(out.Email),
			DisplayName: out.DisplayName,
			PhotoURL:    out.PhotoURL,
		},
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    p.expiry(out.ExpiresIn),
	}, nil
}

func (p *FirebaseIdentityProvider) roundTrip(req *http.Request, out interface{}) error {
	resp, err := p.http.Do(req)
	if err != nil {
		if errors.Is(req.Context().Err(), context.Canceled) {
			return &AuthError{Kind: AuthCancelled, Err: err}
		}
		return &AuthError{Kind: AuthNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e identityErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return authErrorFor(resp.StatusCode, e.Error.Message)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &AuthError{Kind: AuthNetwork, Err: err}
	}
	return nil
}

// authErrorFor maps identity provider error messages, which may carry a
// suffix like "TOO_MANY_ATTEMPTS_TRY_LATER : ...", onto AuthError kinds.
func authErrorFor(status int, message string) *AuthError {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	err := errors.New(message)
	switch code {
	case "EMAIL_EXISTS":
		return &AuthError{Kind: AuthEmailInUse, Err: err}
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL",
		"USER_DISABLED", "INVALID_IDP_RESPONSE", "WEAK_PASSWORD", "MISSING_PASSWORD", "INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED":
		return &AuthError{Kind: AuthInvalidCredential, Err: err}
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return &AuthError{Kind: AuthNetwork, Err: err}
	}
	return &AuthError{Kind: AuthInvalidCredential, Err: err}
}

func (p *FirebaseIdentityProvider) expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return p.now().Add(time.Duration(secs) * time.Second)
}
