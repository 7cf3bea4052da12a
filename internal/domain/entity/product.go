package entity

import (
	"time"
)

// DateLayout is the calendar-date format used for product and price dates.
const DateLayout = "2006-01-02"

type PricePoint struct {
	Date  string  `json:"date" firestore:"date"`
	Price float64 `json:"price" firestore:"price"`
}

type Product struct {
	ID                string           `json:"id" firestore:"id"`
	VendorEmail       string           `json:"vendor_email" firestore:"vendorEmail"`
	VendorName        string           `json:"vendor_name" firestore:"vendorName"`
	MarketName        string           `json:"market_name" firestore:"marketName"`
	MarketDescription string           `json:"market_description" firestore:"marketDescription"`
	ItemName          string           `json:"item_name" firestore:"itemName"`
	ItemDescription   string           `json:"item_description" firestore:"itemDescription"`
	Image             string           `json:"image" firestore:"image"`
	PricePerUnit      float64          `json:"price_per_unit" firestore:"pricePerUnit"`
	Date              string           `json:"date" firestore:"date"`
	PriceHistory      []PricePoint     `json:"price_history" firestore:"priceHistory"`
	Status            ModerationStatus `json:"status" firestore:"status"`
	RejectionReason   string           `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	RejectionFeedback string           `json:"rejection_feedback,omitempty" firestore:"rejectionFeedback,omitempty"`
	CreatedAt         time.Time        `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time        `json:"updated_at" firestore:"updatedAt"`
}
