package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeRoleNotFound       = "ROLE_NOT_FOUND"
	CodeRoleResolution     = "ROLE_RESOLUTION_FAILED"
	CodePaymentFailed      = "PAYMENT_FAILED"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Validation reports a rejected input. field may be empty when the rule spans
// several fields.
func Validation(field, message string) *AppError {
	appErr := &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
	if field != "" {
		appErr.Details = map[string]string{"field": field}
	}
	return appErr
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// RoleNotFound is returned when no user record exists for an email. Callers
// must treat it as "not authorized", never as a default role.
func RoleNotFound(email string) *AppError {
	return &AppError{
		Code:    CodeRoleNotFound,
		Message: fmt.Sprintf("no role on record for %s", email),
		Status:  http.StatusNotFound,
	}
}

func RoleResolution(message string, err error) *AppError {
	return &AppError{
		Code:    CodeRoleResolution,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

func PaymentFailed(message string, err error) *AppError {
	return &AppError{
		Code:    CodePaymentFailed,
		Message: message,
		Status:  http.StatusPaymentRequired,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound matches plain NOT_FOUND as well as ROLE_NOT_FOUND.
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound) || Is(err, CodeRoleNotFound)
}
