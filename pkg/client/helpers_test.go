package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bazaarbondhu/internal/domain/access"
)

// fakeIdentity issues tokens of the form "tok:<email>".
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]string
	signups  int
}

func newFakeIdentity(accounts map[string]string) *fakeIdentity {
	if accounts == nil {
		accounts = map[string]string{}
	}
	return &fakeIdentity{accounts: accounts}
}

func (f *fakeIdentity) creds(email string) *Credentials {
	return &Credentials{
		Identity:     access.Identity{UID: "uid-" + email, Email: email, DisplayName: strings.Split(email, "@")[0]},
		IDToken:      "tok:" + email,
		RefreshToken: "refresh:" + email,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return nil, &AuthError{Kind: AuthInvalidCredential}
	}
	return f.creds(email), nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, &AuthError{Kind: AuthEmailInUse}
	}
	f.accounts[email] = password
	f.signups++
	return f.creds(email), nil
}

func (f *fakeIdentity) SignInWithIdp(_ context.Context, _, providerToken string) (*Credentials, error) {
	return f.creds(providerToken), nil
}

func (f *fakeIdentity) Refresh(_ context.Context, refreshToken string) (*Credentials, error) {
	return f.creds(strings.TrimPrefix(refreshToken, "refresh:")), nil
}

// fakeBackend answers API calls with the response envelope and counts hits
// per "METHOD /path".
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	roles  map[string]string
	routes map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		t:      t,
		hits:   map[string]int{},
		roles:  map[string]string{},
		routes: map[string]http.HandlerFunc{},
	}
	b.routes["GET /v1/users/role"] = func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		b.mu.Lock()
		role, ok := b.roles[email]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "ROLE_NOT_FOUND", "no role on record", nil)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"email": email, "role": role})
	}
	b.routes["POST /v1/users"] = func(w http.ResponseWriter, r *http.Request) {
		email := callerEmail(r)
		b.mu.Lock()
		if _, ok := b.roles[email]; !ok {
			b.roles[email] = "user"
		}
		b.mu.Unlock()
		writeData(w, http.StatusCreated, map[string]string{"email": email, "role": "user"})
	}

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.hits[key]++
		h, ok := b.routes[key]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no route "+key, nil)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(key string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = h
}

func (b *fakeBackend) setRole(email, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roles[email] = role
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *fakeBackend) client(t *testing.T, idp IdentityProvider) *Client {
	c, err := New(Config{BaseURL: b.server.URL + "/v1", PageLimit: 5}, WithIdentityProvider(idp))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func callerEmail(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer tok:")
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data, "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errInfo := map[string]interface{}{"code": code, "message": message}
	if details != nil {
		errInfo["details"] = details
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": errInfo, "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
