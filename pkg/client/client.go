package client

import (
	"context"
	"errors"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type (
	Role          = entity.Role
	Product       = entity.Product
	PricePoint    = entity.PricePoint
	Advertisement = entity.Advertisement
	Review        = entity.Review
	WatchlistItem = entity.WatchlistItemWithProduct
	Order         = entity.Order
	User          = entity.User
)

// Client is the marketplace SDK: session, role, route guard and typed API.
type Client struct {
	cfg  Config
	http *transport

	Session   *Session
	Roles     *RoleResolver
	Navigator *Navigator
}

type Option func(*options)

type options struct {
	provider IdentityProvider
	store    SessionStore
}

func WithIdentityProvider(p IdentityProvider) Option {
	return func(o *options) { o.provider = p }
}

func WithSessionStore(s SessionStore) Option {
	return func(o *options) { o.store = s }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	cfg = cfg.withDefaults()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = NewFirebaseIdentityProvider(cfg)
	}
	if o.store == nil {
		if cfg.SessionFile != "" {
			o.store = NewFileSessionStore(cfg.SessionFile)
		} else {
			o.store = NewMemorySessionStore()
		}
	}

	c := &Client{cfg: cfg}
	c.Session = NewSession(o.provider, o.store)
	c.http = newTransport(cfg, c.Session)
	c.Roles = NewRoleResolver(c.Session, c.lookupRole)
	c.Navigator = NewNavigator(c.Session, c.Roles)

	if _, err := c.Session.Restore(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*access.Identity, error) {
	return c.Session.SignIn(ctx, email, password)
}

// SignUp creates the account and its backend record, which starts with role user.
func (c *Client) SignUp(ctx context.Context, email, password string) (*access.Identity, error) {
	id, err := c.Session.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if _, err := c.SyncUser(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// SignInWithProvider signs in through a federated provider and makes sure the
// backend record exists.
func (c *Client) SignInWithProvider(ctx context.Context, credential ProviderCredential) (*access.Identity, error) {
	id, err := c.Session.SignInWithProvider(ctx, credential)
	if err != nil {
		return nil, err
	}
	if _, err := c.SyncUser(ctx); err != nil {
		return id, err
	}
	return id, nil
}

func (c *Client) SignOut() error {
	return c.Session.SignOut()
}

// Menu returns the dashboard navigation for the current role. When the role
// cannot be resolved only the home entry is returned, with the error.
func (c *Client) Menu(ctx context.Context) ([]access.MenuEntry, error) {
	if _, err := c.Roles.Resolve(ctx); err != nil {
		return access.MenuFor(c.Roles.State()), err
	}
	return access.MenuFor(c.Roles.State()), nil
}

// requireRole resolves the caller's role and checks it against allowed
// without calling the endpoint being guarded.
func (c *Client) requireRole(ctx context.Context, allowed ...entity.Role) (entity.Role, error) {
	role, err := c.Roles.Resolve(ctx)
	if err != nil {
		return "", err
	}
	for _, r := range allowed {
		if r == role {
			return role, nil
		}
	}
	return role, ErrRoleNotPermitted
}

// scoped builds list parameters for view with the same rules the server
// applies, so owner filters cannot be overridden.
func (c *Client) scoped(ctx context.Context, resource access.Resource, view access.ListView, f access.Filters) (access.ListParams, error) {
	id := c.Session.Current()
	var role entity.Role
	if id != nil && view != access.ViewCatalog {
		r, err := c.Roles.Resolve(ctx)
		if err != nil {
			return access.ListParams{}, err
		}
		role = r
	}
	params, err := access.BuildListParams(resource, view, role, id, f)
	if errors.Is(err, access.ErrUnauthenticated) {
		return access.ListParams{}, ErrNotSignedIn
	}
	if errors.Is(err, access.ErrScopeForbidden) {
		return access.ListParams{}, ErrRoleNotPermitted
	}
	return params, err
}
