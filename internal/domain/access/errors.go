package access

import "errors"

var (
	ErrUnknownRole     = errors.New("access: role is not one of user, vendor, admin")
	ErrUnauthenticated = errors.New("access: authentication required")
	ErrScopeForbidden  = errors.New("access: role may not use this list view")
	ErrUnsupportedView = errors.New("access: list view not available for resource")
	ErrUnknownRoute    = errors.New("access: unknown route")
)
