package entity

import (
	"time"
)

type WatchlistItem struct {
	ID        string    `json:"id" firestore:"id"`
	ProductID string    `json:"product_id" firestore:"productId"`
	UserEmail string    `json:"user_email" firestore:"userEmail"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type WatchlistItemWithProduct struct {
	WatchlistItem
	Product *Product `json:"product"`
}
