package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type roleResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// lookupRole maps the backend's answer onto a closed role. A missing record
// and an unknown role string are both resolution errors.
func (c *Client) lookupRole(ctx context.Context, email string) (entity.Role, error) {
	var out roleResponse
	err := c.http.get(ctx, "/users/role", url.Values{"email": {email}}, &out)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Code == "ROLE_NOT_FOUND" {
			return "", &RoleResolutionError{Email: email, NoRecord: true, Err: err}
		}
		return "", &RoleResolutionError{Email: email, Err: err}
	}
	role, err := entity.ParseRole(out.Role)
	if err != nil {
		return "", &RoleResolutionError{Email: email, Err: err}
	}
	return role, nil
}

// SyncUser creates or refreshes the signed-in account's backend record.
func (c *Client) SyncUser(ctx context.Context) (*User, error) {
	id := c.Session.Current()
	if id == nil {
		return nil, ErrNotSignedIn
	}
	var user User
	err := c.http.send(ctx, http.MethodPost, "/users", map[string]string{
		"displayName": id.DisplayName,
		"photoURL":    id.PhotoURL,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context, role Role, search string, page, limit int) (Page[User], error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", string(role))
	}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out Page[User]
	err := c.http.get(ctx, "/users", q, &out)
	return out, err
}

func (c *Client) SearchUsers(ctx context.Context, email string) ([]User, error) {
	var out []User
	err := c.http.get(ctx, "/users/search", url.Values{"email": {email}}, &out)
	return out, err
}

// ChangeRole is admin only. Changing the caller's own role drops the cached
// role so the menu is rebuilt from the backend.
func (c *Client) ChangeRole(ctx context.Context, userID string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "role must be one of: user vendor admin"}
	}
	var user User
	if err := c.http.send(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID)+"/role", map[string]string{"role": string(role)}, &user); err != nil {
		return nil, err
	}
	if id := c.Session.Current(); id != nil && strings.EqualFold(id.Email, user.Email) {
		c.Roles.Reset()
	}
	return &user, nil
}

type AccessCheck struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// CheckAccess asks the backend to evaluate the route guard for path.
func (c *Client) CheckAccess(ctx context.Context, path string) (*AccessCheck, error) {
	var out AccessCheck
	if err := c.http.get(ctx, "/dashboard/access", url.Values{"path": {path}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ServerMenu returns the menu as computed by the backend.
func (c *Client) ServerMenu(ctx context.Context) ([]access.MenuEntry, error) {
	var out struct {
		Menu []access.MenuEntry `json:"menu"`
	}
	if err := c.http.get(ctx, "/dashboard/menu", nil, &out); err != nil {
		return nil, err
	}
	return out.Menu, nil
}

// Stats is the role-specific dashboard summary.
type Stats map[string]interface{}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.http.get(ctx, "/stats", nil, &out)
	return out, err
}

func (c *Client) AdminStats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.http.get(ctx, "/admin-stats", nil, &out)
	return out, err
}

func (c *Client) VendorStats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.http.get(ctx, "/vendor-stats", nil, &out)
	return out, err
}
