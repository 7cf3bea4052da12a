package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bazaarbondhu/pkg/logger"
)

// StripePaymentService talks to the Stripe REST API directly.
type StripePaymentService struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripePaymentService(secretKey, baseURL string) *StripePaymentService {
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	return &StripePaymentService{
		secretKey:  secretKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeIntent struct {
	ID                 string            `json:"id"`
	ClientSecret       string            `json:"client_secret"`
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	Status             string            `json:"status"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	Metadata           map[string]string `json:"metadata"`
}

type stripeErrorBody struct {
	Error struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		DeclineCode string `json:"decline_code"`
		Message     string `json:"message"`
	} `json:"error"`
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Add("payment_method_types[]", "card")
	if req.Email != "" {
		form.Set("receipt_email", req.Email)
		form.Set("metadata[email]", req.Email)
	}
	if req.ProductID != "" {
		form.Set("metadata[productId]", req.ProductID)
	}
	if req.Description != "" {
		form.Set("description", req.Description)
	}

	logger.FromContext(ctx).Info().
		Str("product_id", req.ProductID).
		Int64("amount", req.Amount).
		Msg("creating stripe payment intent")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return s.do(httpReq)
}

func (s *StripePaymentService) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return s.do(httpReq)
}

func (s *StripePaymentService) do(httpReq *http.Request) (*PaymentIntent, error) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var stripeErr stripeErrorBody
		_ = json.Unmarshal(body, &stripeErr)
		if stripeErr.Error.Type == "card_error" {
			return nil, fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe error (status %d): %s", resp.StatusCode, stripeErr.Error.Message)
	}

	var intent stripeIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse stripe response: %w", err)
	}

	return &PaymentIntent{
		ID:                 intent.ID,
		ClientSecret:       intent.ClientSecret,
		Amount:             intent.Amount,
		Currency:           intent.Currency,
		Status:             intent.Status,
		PaymentMethodTypes: intent.PaymentMethodTypes,
		Metadata:           intent.Metadata,
	}, nil
}
