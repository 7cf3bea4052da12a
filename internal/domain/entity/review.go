package entity

import (
	"time"
)

// Review is immutable once stored.
type Review struct {
	ID        string    `json:"id" firestore:"id"`
	ProductID string    `json:"product_id" firestore:"productId"`
	UserEmail string    `json:"user_email" firestore:"userEmail"`
	UserName  string    `json:"user_name" firestore:"userName"`
	Rating    int       `json:"rating" firestore:"rating"`
	Comment   string    `json:"comment" firestore:"comment"`
	Date      time.Time `json:"date" firestore:"date"`
}
