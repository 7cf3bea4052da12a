package client

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

// RoleLookup asks the backend for the role on record for email.
type RoleLookup func(ctx context.Context, email string) (entity.Role, error)

// RoleResolver caches the signed-in account's role for the session. Until a
// lookup succeeds the state is never a role, so callers cannot mistake
// "unknown" for "user".
type RoleResolver struct {
	session *Session
	lookup  RoleLookup
	group   singleflight.Group

	mu    sync.Mutex
	email string
	gen   uint64
	state access.RoleState
}

// NewRoleResolver resets itself whenever the session's identity changes.
func NewRoleResolver(session *Session, lookup RoleLookup) *RoleResolver {
	r := &RoleResolver{
		session: session,
		lookup:  lookup,
		state:   access.Unresolved(),
	}
	session.OnChange(func(*access.Identity) { r.Reset() })
	return r
}

// State is what a render decision must use right now.
// A state held for an earlier identity reads as unresolved.
func (r *RoleResolver) State() access.RoleState {
	id := r.session.Current()
	if id == nil {
		return access.Unresolved()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !strings.EqualFold(r.email, id.Email) {
		return access.Unresolved()
	}
	return r.state
}

// Resolve returns the cached role or looks it up. Concurrent callers share one
// lookup. A lookup that finishes after the identity changed returns ErrStale
// and leaves the state alone.
func (r *RoleResolver) Resolve(ctx context.Context) (entity.Role, error) {
	id := r.session.Current()
	if id == nil {
		return "", ErrNotSignedIn
	}

	r.mu.Lock()
	if strings.EqualFold(r.email, id.Email) {
		if role, ok := r.state.Known(); ok {
			r.mu.Unlock()
			return role, nil
		}
	} else {
		r.email = id.Email
		r.gen++
	}
	gen := r.gen
	r.state = access.Resolving()
	r.mu.Unlock()

	v, err, _ := r.group.Do(id.Email, func() (interface{}, error) {
		return r.lookup(ctx, id.Email)
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return "", ErrStale
	}
	if err != nil {
		rerr := asRoleError(id.Email, err)
		r.state = access.Failed(rerr)
		return "", rerr
	}

	role, _ := v.(entity.Role)
	r.state = access.Resolved(role)
	if r.state.Phase != access.PhaseResolved {
		rerr := &RoleResolutionError{Email: id.Email, Err: r.state.Err}
		r.state = access.Failed(rerr)
		return "", rerr
	}
	return role, nil
}

// Reset forgets the cached role; the next Resolve looks it up again.
func (r *RoleResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.email = ""
	r.state = access.Unresolved()
}

func asRoleError(email string, err error) error {
	if rerr, ok := err.(*RoleResolutionError); ok {
		return rerr
	}
	return &RoleResolutionError{Email: email, Err: err}
}
