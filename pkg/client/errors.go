package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSignedIn is returned by calls that need an identity when none is present.
	ErrNotSignedIn = errors.New("client: not signed in")
	// ErrStale marks a list response superseded by a newer request. Its data
	// was discarded.
	ErrStale = errors.New("client: response superseded by a newer request")
	// ErrRoleNotPermitted is returned, without any network call, for operations
	// the caller's role can never perform.
	ErrRoleNotPermitted = errors.New("client: operation not available for this role")
	// ErrCancelled is returned by a ProviderCredential when the user backs out.
	ErrCancelled = errors.New("client: sign-in cancelled")
)

type AuthErrorKind string

const (
	AuthInvalidCredential AuthErrorKind = "invalid-credential"
	AuthEmailInUse        AuthErrorKind = "email-in-use"
	AuthNetwork           AuthErrorKind = "network"
	AuthCancelled         AuthErrorKind = "cancelled"
)

type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return "auth: " + string(e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RoleResolutionError means the role could not be determined. Callers must
// treat it as not authorized.
type RoleResolutionError struct {
	Email    string
	NoRecord bool
	Err      error
}

func (e *RoleResolutionError) Error() string {
	if e.NoRecord {
		return fmt.Sprintf("role: no record for %s", e.Email)
	}
	return fmt.Sprintf("role: lookup for %s failed: %v", e.Email, e.Err)
}

func (e *RoleResolutionError) Unwrap() error { return e.Err }

// FetchError is any failed call to the backend. Status is zero for network
// failures.
type FetchError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Code, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the same request may succeed.
func (e *FetchError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500 || e.Status == 429
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

type PaymentError struct {
	Declined bool
	Message  string
	Err      error
}

func (e *PaymentError) Error() string {
	if e.Declined {
		return "payment: card declined: " + e.Message
	}
	return "payment: " + e.Message
}

func (e *PaymentError) Unwrap() error { return e.Err }

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == 403
}
