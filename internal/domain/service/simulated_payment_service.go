package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SimulatedPaymentService keeps intents in memory and marks them succeeded as
// soon as they are confirmed. Used in development and tests.
type SimulatedPaymentService struct {
	mu      sync.Mutex
	intents map[string]*PaymentIntent
}

func NewSimulatedPaymentService() *SimulatedPaymentService {
	return &SimulatedPaymentService{intents: make(map[string]*PaymentIntent)}
}

func (s *SimulatedPaymentService) CreateIntent(_ context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := &PaymentIntent{
		ID:                 id,
		ClientSecret:       id + "_secret_" + uuid.NewString()[:8],
		Amount:             req.Amount,
		Currency:           strings.ToLower(req.Currency),
		Status:             IntentRequiresPaymentMethod,
		PaymentMethodTypes: []string{"card"},
		Metadata:           map[string]string{"email": req.Email, "productId": req.ProductID},
	}

	s.mu.Lock()
	s.intents[id] = intent
	s.mu.Unlock()

	cp := *intent
	return &cp, nil
}

func (s *SimulatedPaymentService) GetIntent(_ context.Context, id string) (*PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	cp := *intent
	return &cp, nil
}

// Confirm settles an intent the way a successful card confirmation would.
func (s *SimulatedPaymentService) Confirm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[id]
	if !ok {
		return fmt.Errorf("no such payment intent: %s", id)
	}
	intent.Status = IntentSucceeded
	return nil
}
