package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// NetworkErrorMessage is reported whenever no response reached the backend.
const NetworkErrorMessage = "Network error"

// ApiError is the uniform failure shape handed to the storefront.
// Validation, transport and backend failures are all converted into it at
// the operation boundary.
type ApiError struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path,omitempty"`

	cause error
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *ApiError) Unwrap() error {
	return e.cause
}

// NewApiError builds an error with the current timestamp.
func NewApiError(status int, message string, details any) *ApiError {
	return &ApiError{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// WrapError builds a fresh ApiError carrying a package-level sentinel, so
// callers can still match it with errors.Is. The sentinel's text becomes
// the message.
func WrapError(status int, sentinel error) *ApiError {
	e := NewApiError(status, sentinel.Error(), nil)
	e.cause = sentinel
	return e
}

// NewValidationError is used for client-detected problems (missing fields,
// empty cart, terms not accepted). No network round-trip is involved.
func NewValidationError(message string, fields ...string) *ApiError {
	var details any
	if len(fields) > 0 {
		details = map[string]any{"fields": fields}
	}
	return NewApiError(http.StatusBadRequest, message, details)
}

// NewNetworkError is used when the request never got a response: timeouts,
// DNS failures, refused connections.
func NewNetworkError(path string, cause error) *ApiError {
	e := NewApiError(http.StatusInternalServerError, NetworkErrorMessage, nil)
	e.Path = path
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// AsApiError unwraps err into an *ApiError, converting anything else into a
// generic 500.
func AsApiError(err error) *ApiError {
	if err == nil {
		return nil
	}
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewApiError(http.StatusInternalServerError, err.Error(), nil)
}

// StatusOf maps any error onto an HTTP status code.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	apiErr := AsApiError(err)
	if apiErr.Status < 400 || apiErr.Status > 599 {
		return http.StatusInternalServerError
	}
	return apiErr.Status
}

// NewBindingError converts a request binding failure into a 400 naming the
// offending fields.
func NewBindingError(err error) *ApiError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return NewValidationError("Invalid request", fields...)
	}
	return NewApiError(http.StatusBadRequest, "Invalid request body", err.Error())
}
