package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type ProductInput struct {
	MarketName        string       `json:"marketName"`
	MarketDescription string       `json:"marketDescription,omitempty"`
	Date              string       `json:"date,omitempty"`
	ItemName          string       `json:"itemName"`
	ItemDescription   string       `json:"itemDescription,omitempty"`
	Image             string       `json:"image,omitempty"`
	PricePerUnit      float64      `json:"pricePerUnit"`
	PriceHistory      []PricePoint `json:"priceHistory,omitempty"`
}

func (in ProductInput) Validate() error {
	switch {
	case strings.TrimSpace(in.MarketName) == "":
		return &ValidationError{Field: "marketName", Message: "market name is required"}
	case strings.TrimSpace(in.ItemName) == "":
		return &ValidationError{Field: "itemName", Message: "item name is required"}
	case in.PricePerUnit <= 0:
		return &ValidationError{Field: "pricePerUnit", Message: "price per unit must be greater than 0"}
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context, view access.ListView, f access.Filters, page, limit int) (Page[Product], error) {
	params, err := c.scoped(ctx, access.ResourceProducts, view, f)
	if err != nil {
		return Page[Product]{}, err
	}
	var out Page[Product]
	err = c.http.get(ctx, "/products", params.WithPage(page, limit).Values(), &out)
	return out, err
}

// ProductPager pages through view: the public catalog, the vendor's own
// products or, for admins, everything.
func (c *Client) ProductPager(view access.ListView) *Pager[Product] {
	return NewPager(c.cfg.PageLimit, func(ctx context.Context, f access.Filters, page, limit int) (Page[Product], error) {
		return c.ListProducts(ctx, view, f, page, limit)
	})
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.http.get(ctx, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LatestProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.http.get(ctx, "/products-latest", nil, &out)
	return out, err
}

// PriceHistory returns the points on or after since (YYYY-MM-DD), oldest first.
func (c *Client) PriceHistory(ctx context.Context, productID, since string) ([]PricePoint, error) {
	var q url.Values
	if since != "" {
		q = url.Values{"date": {since}}
	}
	var out []PricePoint
	err := c.http.get(ctx, "/products/"+url.PathEscape(productID)+"/price-history", q, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := c.requireRole(ctx, entity.RoleVendor); err != nil {
		return nil, err
	}
	var out Product
	if err := c.http.send(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out Product
	if err := c.http.send(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.http.send(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ApproveProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.http.send(ctx, http.MethodPatch, "/products/"+url.PathEscape(id)+"/status", map[string]string{"status": string(entity.StatusApproved)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectProduct needs both a reason and feedback; a missing one fails before
// any request is made.
func (c *Client) RejectProduct(ctx context.Context, id, reason, feedback string) (*Product, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, &ValidationError{Field: "feedback", Message: "rejection feedback is required"}
	}
	var out Product
	if err := c.http.send(ctx, http.MethodPatch, "/products/"+url.PathEscape(id)+"/reject", map[string]string{"reason": reason, "feedback": feedback}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
