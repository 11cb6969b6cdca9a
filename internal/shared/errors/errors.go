// Package errors defines the application error shape returned to HTTP clients.
// Message holds a stable message key that the transport layer localises.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeInternal        ErrorType = "internal_error"
	ErrorTypeBadRequest      ErrorType = "bad_request"
	ErrorTypeBadGateway      ErrorType = "bad_gateway"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// AppError is an error that knows its HTTP status and client-facing message key.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: strings.Join(details, "; "),
	}
}

func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewBadGatewayError reports a failure of an upstream provider.
func NewBadGatewayError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadGateway, http.StatusBadGateway, message, details)
}

func NewTooManyRequestsError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTooManyRequests, http.StatusTooManyRequests, message, details)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFoundError(err error) bool   { return isType(err, ErrorTypeNotFound) }
func IsConflictError(err error) bool   { return isType(err, ErrorTypeConflict) }
func IsForbiddenError(err error) bool  { return isType(err, ErrorTypeForbidden) }
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsDuplicateError recognises unique-constraint violations from mysql,
// postgres and sqlite.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"Duplicate entry", "duplicate key", "duplicated key", "unique constraint", "UNIQUE constraint failed"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
