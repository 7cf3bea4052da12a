package usecase

import (
	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

// Caller is the verified identity behind a request together with its
// resolved role. Role is empty for anonymous callers.
type Caller struct {
	Identity access.Identity
	Role     entity.Role
}

func (c Caller) Email() string {
	return c.Identity.Email
}

func (c Caller) Authenticated() bool {
	return c.Identity.Present()
}

func (c Caller) Is(role entity.Role) bool {
	return c.Role.Valid() && c.Role == role
}
