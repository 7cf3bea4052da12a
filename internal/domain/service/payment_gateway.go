package service

import (
	"context"
	"errors"
)

// Intent statuses as reported by the card processor.
const (
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentProcessing            = "processing"
	IntentSucceeded             = "succeeded"
	IntentCanceled              = "canceled"
)

var ErrCardDeclined = errors.New("card declined")

// PaymentIntentRequest asks the processor to hold an amount in minor units.
type PaymentIntentRequest struct {
	Amount      int64
	Currency    string
	Email       string
	ProductID   string
	Description string
}

type PaymentIntent struct {
	ID                 string
	ClientSecret       string
	Amount             int64
	Currency           string
	Status             string
	PaymentMethodTypes []string
	Metadata           map[string]string
}

func (p *PaymentIntent) Succeeded() bool {
	return p != nil && p.Status == IntentSucceeded
}

// PaymentGatewayService creates and inspects payment intents.
type PaymentGatewayService interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// ToMinorUnits converts a price in taka to paisa, rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}

func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
