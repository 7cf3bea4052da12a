package access

import "strings"

// Identity is the authenticated account as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Present reports whether id carries a usable email.
func (id *Identity) Present() bool {
	return id != nil && strings.TrimSpace(id.Email) != ""
}
