package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/pkg/logger"
)

// ProviderCredential obtains a federated id token, typically by running the
// provider's consent flow. It returns ErrCancelled when the user backs out.
type ProviderCredential func(ctx context.Context) (providerID, idToken string, err error)

// Listener is called with the new identity, or nil after sign-out.
type Listener func(id *access.Identity)

// Session holds the current identity. It is the only place that mutates it;
// every change is persisted and announced to listeners.
type Session struct {
	provider IdentityProvider
	store    SessionStore
	now      func() time.Time

	mu        sync.RWMutex
	creds     *Credentials
	listeners map[int]Listener
	nextID    int
	refresh   sync.Mutex
}

func NewSession(provider IdentityProvider, store SessionStore) *Session {
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &Session{
		provider:  provider,
		store:     store,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Restore loads a persisted session, if any, and returns its identity.
func (s *Session) Restore() (*access.Identity, error) {
	creds, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if creds == nil || !creds.Identity.Present() {
		return nil, nil
	}
	s.set(creds)
	return s.Current(), nil
}

// Current returns a copy of the signed-in identity or nil.
func (s *Session) Current() *access.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil
	}
	id := s.creds.Identity
	return &id
}

// OnChange registers l and returns a function removing it.
func (s *Session) OnChange(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*access.Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &AuthError{Kind: AuthInvalidCredential, Err: errors.New("email and password are required")}
	}
	creds, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	return s.establish(creds)
}

func (s *Session) SignUp(ctx context.Context, email, password string) (*access.Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &AuthError{Kind: AuthInvalidCredential, Err: errors.New("email and password are required")}
	}
	creds, err := s.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	return s.establish(creds)
}

func (s *Session) SignInWithProvider(ctx context.Context, credential ProviderCredential) (*access.Identity, error) {
	providerID, token, err := credential(ctx)
	if err != nil {
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
			return nil, &AuthError{Kind: AuthCancelled, Err: err}
		}
		return nil, &AuthError{Kind: AuthNetwork, Err: err}
	}
	creds, err := s.provider.SignInWithIdp(ctx, providerID, token)
	if err != nil {
		return nil, err
	}
	return s.establish(creds)
}

// SignOut clears the identity locally and in the store. Listeners run even
// when clearing the store fails.
func (s *Session) SignOut() error {
	err := s.store.Clear()
	s.set(nil)
	return err
}

// Token returns a valid ID token, refreshing it when close to expiry.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	creds := s.creds
	s.mu.RUnlock()
	if creds == nil {
		return "", ErrNotSignedIn
	}
	if !creds.Expired(s.now(), time.Minute) {
		return creds.IDToken, nil
	}

	s.refresh.Lock()
	defer s.refresh.Unlock()

	s.mu.RLock()
	current := s.creds
	s.mu.RUnlock()
	if current == nil {
		return "", ErrNotSignedIn
	}
	if current != creds && !current.Expired(s.now(), time.Minute) {
		return current.IDToken, nil
	}

	fresh, err := s.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return "", err
	}
	fresh.Identity = current.Identity

	s.mu.Lock()
	if s.creds != current {
		// signed out or replaced while refreshing
		s.mu.Unlock()
		return "", ErrNotSignedIn
	}
	s.creds = fresh
	s.mu.Unlock()

	// the fresh token is usable even if it could not be persisted
	if err := s.store.Save(fresh); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("could not persist refreshed session")
	}
	return fresh.IDToken, nil
}

func (s *Session) establish(creds *Credentials) (*access.Identity, error) {
	if !creds.Identity.Present() {
		return nil, &AuthError{Kind: AuthInvalidCredential, Err: errors.New("identity provider returned no email")}
	}
	if err := s.store.Save(creds); err != nil {
		return nil, err
	}
	s.set(creds)
	return s.Current(), nil
}

func (s *Session) set(creds *Credentials) {
	s.mu.Lock()
	s.creds = creds
	var id *access.Identity
	if creds != nil {
		c := creds.Identity
		id = &c
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(id)
	}
}
