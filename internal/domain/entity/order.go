package entity

import (
	"time"
)

// Order records one confirmed payment. ID is the payment provider's
// transaction id, so a confirmation can only ever be stored once.
type Order struct {
	ID            string    `json:"id" firestore:"id"`
	ProductID     string    `json:"product_id" firestore:"productId"`
	Email         string    `json:"email" firestore:"email"`
	VendorEmail   string    `json:"vendor_email" firestore:"vendorEmail"`
	ItemName      string    `json:"item_name" firestore:"itemName"`
	MarketName    string    `json:"market_name" firestore:"marketName"`
	Amount        float64   `json:"amount" firestore:"amount"`
	Currency      string    `json:"currency" firestore:"currency"`
	TransactionID string    `json:"transaction_id" firestore:"transactionId"`
	PaymentMethod []string  `json:"payment_method" firestore:"paymentMethod"`
	PaidAt        time.Time `json:"paid_at" firestore:"paidAt"`
}
