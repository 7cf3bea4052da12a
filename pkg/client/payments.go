package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

type PaymentIntent struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// Card is a tokenized card, e.g. a Stripe payment method id. Raw card numbers
// never pass through this package.
type Card struct {
	PaymentMethodID string
}

type PaymentConfirmation struct {
	TransactionID string
	Status        string
	PaymentMethod []string
}

// CardConfirmer completes a payment intent with the payment provider using
// the client secret issued by the backend.
type CardConfirmer interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*PaymentConfirmation, error)
}

func (c *Client) CreatePaymentIntent(ctx context.Context, productID string) (*PaymentIntent, error) {
	if _, err := c.requireRole(ctx, entity.RoleUser); err != nil {
		return nil, err
	}
	var out PaymentIntent
	if err := c.http.send(ctx, http.MethodPost, "/create-payment-intent", map[string]string{"productId": productID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout buys productID: the backend prices it, confirmer charges the card
// and the confirmed transaction is recorded as an order.
func (c *Client) Checkout(ctx context.Context, productID string, card Card, confirmer CardConfirmer) (*Order, error) {
	if card.PaymentMethodID == "" {
		return nil, &ValidationError{Field: "card", Message: "card is required"}
	}
	intent, err := c.CreatePaymentIntent(ctx, productID)
	if err != nil {
		return nil, err
	}

	conf, err := confirmer.ConfirmCardPayment(ctx, intent.ClientSecret, card)
	if err != nil {
		var pe *PaymentError
		if errors.As(err, &pe) {
			return nil, pe
		}
		return nil, &PaymentError{Message: "confirmation failed", Err: err}
	}
	if conf.Status != "succeeded" {
		return nil, &PaymentError{Declined: conf.Status == "requires_payment_method", Message: "payment status " + conf.Status}
	}

	var order Order
	body := map[string]interface{}{
		"productId":     productID,
		"transactionId": conf.TransactionID,
		"paymentMethod": conf.PaymentMethod,
	}
	if err := c.http.send(ctx, http.MethodPost, "/payments", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the caller's orders (ViewMine) or, for admins, every
// order (ViewAll).
func (c *Client) ListOrders(ctx context.Context, view access.ListView, f access.Filters, page, limit int) (Page[Order], error) {
	params, err := c.scoped(ctx, access.ResourceOrders, view, f)
	if err != nil {
		return Page[Order]{}, err
	}
	path := "/payments"
	if view == access.ViewAll {
		path = "/admin/all-orders"
	}
	var out Page[Order]
	err = c.http.get(ctx, path, params.WithPage(page, limit).Values(), &out)
	return out, err
}

func (c *Client) OrderPager(view access.ListView) *Pager[Order] {
	return NewPager(c.cfg.PageLimit, func(ctx context.Context, f access.Filters, page, limit int) (Page[Order], error) {
		return c.ListOrders(ctx, view, f, page, limit)
	})
}

// StripeCardConfirmer confirms payment intents with a publishable key, the
// way a browser integration would.
type StripeCardConfirmer struct {
	publishableKey string
	baseURL        string
	http           *http.Client
}

func NewStripeCardConfirmer(publishableKey, baseURL string, httpClient *http.Client) *StripeCardConfirmer {
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StripeCardConfirmer{
		publishableKey: publishableKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           httpClient,
	}
}

type stripeIntent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Error         *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (s *StripeCardConfirmer) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*PaymentConfirmation, error) {
	intentID, _, ok := strings.Cut(clientSecret, "_secret_")
	if !ok || intentID == "" {
		return nil, &PaymentError{Message: "malformed client secret"}
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", card.PaymentMethodID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/payment_intents/"+intentID+"/confirm", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.publishableKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &PaymentError{Message: "payment provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	var out stripeIntent
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &PaymentError{Message: "malformed payment provider response", Err: err}
	}
	if out.Error != nil {
		return nil, &PaymentError{Declined: out.Error.Type == "card_error", Message: out.Error.Message}
	}
	if out.Status == "requires_payment_method" && out.LastPaymentError != nil {
		return nil, &PaymentError{Declined: true, Message: out.LastPaymentError.Message}
	}

	return &PaymentConfirmation{
		TransactionID: out.ID,
		Status:        out.Status,
		PaymentMethod: []string{out.PaymentMethod},
	}, nil
}
