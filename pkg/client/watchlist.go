package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"bazaarbondhu/internal/domain/entity"
)

// AddToWatchlist is for the user role only. Vendors and admins get
// ErrRoleNotPermitted without the watchlist endpoint being called.
func (c *Client) AddToWatchlist(ctx context.Context, productID string) (*entity.WatchlistItem, error) {
	if _, err := c.requireRole(ctx, entity.RoleUser); err != nil {
		return nil, err
	}
	var out entity.WatchlistItem
	if err := c.http.send(ctx, http.MethodPost, "/watchlist", map[string]string{"productId": productID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Watchlist(ctx context.Context, page, limit int) (Page[WatchlistItem], error) {
	if _, err := c.requireRole(ctx, entity.RoleUser); err != nil {
		return Page[WatchlistItem]{}, err
	}
	q := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	var out Page[WatchlistItem]
	err := c.http.get(ctx, "/watchlist", q, &out)
	return out, err
}

func (c *Client) RemoveFromWatchlist(ctx context.Context, id string) error {
	return c.http.send(ctx, http.MethodDelete, "/watchlist/"+url.PathEscape(id), nil, nil)
}
