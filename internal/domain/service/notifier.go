package service

// Notification is pushed to a connected account when something it owns changes.
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	NotifyProductApproved       = "product_approved"
	NotifyProductRejected       = "product_rejected"
	NotifyAdvertisementApproved = "advertisement_approved"
	NotifyAdvertisementRejected = "advertisement_rejected"
	NotifyRoleChanged           = "role_changed"
	NotifyPaymentRecorded       = "payment_recorded"
)

// Notifier delivers a notification to every live connection of email.
type Notifier interface {
	Notify(email string, n Notification)
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Notification) {}
