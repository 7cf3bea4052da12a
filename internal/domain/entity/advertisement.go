package entity

import (
	"time"
)

type Advertisement struct {
	ID              string           `json:"id" firestore:"id"`
	VendorEmail     string           `json:"vendor_email" firestore:"vendorEmail"`
	Title           string           `json:"title" firestore:"title"`
	Description     string           `json:"description" firestore:"description"`
	Image           string           `json:"image" firestore:"image"`
	Status          ModerationStatus `json:"status" firestore:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	CreatedAt       time.Time        `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time        `json:"updated_at" firestore:"updatedAt"`
}
