package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type AdvertisementInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (c *Client) ListAdvertisements(ctx context.Context, view access.ListView, f access.Filters, page, limit int) (Page[Advertisement], error) {
	params, err := c.scoped(ctx, access.ResourceAdvertisements, view, f)
	if err != nil {
		return Page[Advertisement]{}, err
	}
	var out Page[Advertisement]
	err = c.http.get(ctx, "/advertisements", params.WithPage(page, limit).Values(), &out)
	return out, err
}

func (c *Client) AdvertisementPager(view access.ListView) *Pager[Advertisement] {
	return NewPager(c.cfg.PageLimit, func(ctx context.Context, f access.Filters, page, limit int) (Page[Advertisement], error) {
		return c.ListAdvertisements(ctx, view, f, page, limit)
	})
}

func (c *Client) CurrentAdvertisements(ctx context.Context) ([]Advertisement, error) {
	var out []Advertisement
	err := c.http.get(ctx, "/advertisements/current", nil, &out)
	return out, err
}

func (c *Client) CreateAdvertisement(ctx context.Context, in AdvertisementInput) (*Advertisement, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if _, err := c.requireRole(ctx, entity.RoleVendor); err != nil {
		return nil, err
	}
	var out Advertisement
	if err := c.http.send(ctx, http.MethodPost, "/advertisements", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAdvertisement edits one of the vendor's own advertisements; the
// server puts it back into review.
func (c *Client) UpdateAdvertisement(ctx context.Context, id string, in AdvertisementInput) (*Advertisement, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if _, err := c.requireRole(ctx, entity.RoleVendor); err != nil {
		return nil, err
	}
	var out Advertisement
	if err := c.http.send(ctx, http.MethodPut, "/advertisements/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAdvertisementStatus approves or rejects an advertisement.
func (c *Client) SetAdvertisementStatus(ctx context.Context, id string, status entity.ModerationStatus, reason string) (*Advertisement, error) {
	if status != entity.StatusApproved && status != entity.StatusRejected {
		return nil, &ValidationError{Field: "status", Message: "status must be one of: approved rejected"}
	}
	var out Advertisement
	body := map[string]string{"status": string(status), "reason": reason}
	if err := c.http.send(ctx, http.MethodPatch, "/advertisements/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAdvertisement(ctx context.Context, id string) error {
	return c.http.send(ctx, http.MethodDelete, "/advertisements/"+url.PathEscape(id), nil, nil)
}
