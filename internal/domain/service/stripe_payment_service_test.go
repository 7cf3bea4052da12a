package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripePaymentService_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "6000", r.PostForm.Get("amount"))
		assert.Equal(t, "bdt", r.PostForm.Get("currency"))
		assert.Equal(t, "p1", r.PostForm.Get("metadata[productId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret","amount":6000,"currency":"bdt","status":"requires_payment_method"}`))
	}))
	defer srv.Close()

	svc := NewStripePaymentService("sk_test", srv.URL)
	intent, err := svc.CreateIntent(context.Background(), PaymentIntentRequest{Amount: 6000, Currency: "BDT", ProductID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	assert.False(t, intent.Succeeded())
}

func TestStripePaymentService_CardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	_, err := NewStripePaymentService("sk_test", srv.URL).GetIntent(context.Background(), "pi_1")
	assert.ErrorIs(t, err, ErrCardDeclined)
}

func TestToMinorUnits(t *testing.T) {
	assert.EqualValues(t, 6000, ToMinorUnits(60))
	assert.EqualValues(t, 1999, ToMinorUnits(19.99))
	assert.Equal(t, 19.99, FromMinorUnits(1999))
}
