package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	var out []Review
	err := c.http.get(ctx, "/products/"+url.PathEscape(productID)+"/reviews", nil, &out)
	return out, err
}

func (c *Client) AddReview(ctx context.Context, productID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if c.Session.Current() == nil {
		return nil, ErrNotSignedIn
	}
	var out Review
	body := map[string]interface{}{"rating": rating, "comment": comment}
	if err := c.http.send(ctx, http.MethodPost, "/products/"+url.PathEscape(productID)+"/reviews", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
