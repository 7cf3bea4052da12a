package entity

import (
	"time"
)

// User is the backend-owned record keyed by email. Role changes only through
// an admin action.
type User struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role        Role      `json:"role" firestore:"role"`
	LastLoginAt time.Time `json:"last_login_at" firestore:"lastLoginAt"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
