package client

import (
	"context"
	"sync"

	"bazaarbondhu/internal/domain/access"
)

// Navigator applies the route guard to dashboard paths and remembers where an
// unauthenticated visitor was headed.
type Navigator struct {
	session *Session
	roles   *RoleResolver

	mu       sync.Mutex
	returnTo string
}

func NewNavigator(session *Session, roles *RoleResolver) *Navigator {
	return &Navigator{session: session, roles: roles}
}

// Decide evaluates path against the current state without blocking. While the
// role is being looked up the outcome is Resolving.
func (n *Navigator) Decide(path string) (access.Decision, error) {
	req, err := access.RequirementFor(path)
	if err != nil {
		return access.Decision{}, err
	}
	d := access.Decide(n.session.Current(), n.roles.State(), req, path)
	if d.Outcome == access.OutcomeUnauthenticated {
		n.mu.Lock()
		n.returnTo = path
		n.mu.Unlock()
	}
	return d, nil
}

// Visit is Decide followed, when needed, by waiting for the role lookup. The
// final outcome is never Resolving unless ctx ends first.
func (n *Navigator) Visit(ctx context.Context, path string) (access.Decision, error) {
	d, err := n.Decide(path)
	if err != nil || d.Outcome != access.OutcomeResolving {
		return d, err
	}

	if _, err := n.roles.Resolve(ctx); err != nil && ctx.Err() != nil {
		return d, ctx.Err()
	}
	// a failed lookup leaves the state Failed, which decides Forbidden
	return n.Decide(path)
}

// AfterSignIn returns the path preserved by the last login redirect, or the
// dashboard home, and forgets it.
func (n *Navigator) AfterSignIn() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	path := n.returnTo
	n.returnTo = ""
	if path == "" {
		return access.PathDashboard
	}
	return path
}

// ResumeFrom records the return path carried by a login URL such as
// /login?from=%2Fdashboard%2Fmy-products.
func (n *Navigator) ResumeFrom(loginURL string) {
	if p := access.ReturnPath(loginURL); p != "" {
		n.mu.Lock()
		n.returnTo = p
		n.mu.Unlock()
	}
}
