// Package errors provides structured error types for the gurl transport layer.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred.
type ErrorType string

const (
	// ErrorTypeURL represents URL format errors (bad scheme, empty host, bad port)
	ErrorTypeURL ErrorType = "url"
	// ErrorTypeDNS represents DNS resolution errors
	ErrorTypeDNS ErrorType = "dns"
	// ErrorTypeConnection represents TCP connection errors
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeTLS represents TLS handshake or configuration errors
	ErrorTypeTLS ErrorType = "tls"
	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeWrite represents request write errors
	ErrorTypeWrite ErrorType = "write"
	// ErrorTypeRead represents response read errors
	ErrorTypeRead ErrorType = "read"
	// ErrorTypeNoResponse represents an exhausted read budget with zero bytes
	ErrorTypeNoResponse ErrorType = "no_response"
	// ErrorTypeMalformed represents unparseable responses
	ErrorTypeMalformed ErrorType = "malformed"
	// ErrorTypeRedirect represents redirect-chain errors
	ErrorTypeRedirect ErrorType = "redirect"
	// ErrorTypeStatus represents HTTP error statuses (>= 400)
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeValidation represents caller input validation errors
	ErrorTypeValidation ErrorType = "validation"
)

// Error represents a structured error with context information.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
	Host    string    `json:"host,omitempty"`
	Port    int       `json:"port,omitempty"`

	// Status and Body are set only for ErrorTypeStatus.
	Status int    `json:"status,omitempty"`
	Body   []byte `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target type.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Type == t.Type
	}
	return false
}

// NewURLError creates a URL format error.
func NewURLError(message string) *Error {
	return &Error{
		Type:    ErrorTypeURL,
		Message: message,
	}
}

// NewDNSError creates a DNS resolution error.
func NewDNSError(host string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeDNS,
		Message: fmt.Sprintf("DNS lookup failed for host %s", host),
		Cause:   cause,
		Host:    host,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(host string, port int, cause error) *Error {
	return &Error{
		Type:    ErrorTypeConnection,
		Message: fmt.Sprintf("failed to connect to %s:%d", host, port),
		Cause:   cause,
		Host:    host,
		Port:    port,
	}
}

// NewTLSError creates a TLS handshake error.
func NewTLSError(host string, port int, cause error) *Error {
	return &Error{
		Type:    ErrorTypeTLS,
		Message: fmt.Sprintf("TLS handshake failed for %s:%d", host, port),
		Cause:   cause,
		Host:    host,
		Port:    port,
	}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(operation string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
		Cause:   cause,
	}
}

// NewTimeoutSetupError reports a failure to configure a socket deadline.
// Kept distinct from connection and TLS errors so callers can tell a broken
// socket option apart from a failed dial or handshake.
func NewTimeoutSetupError(operation string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("failed to set %s timeout", operation),
		Cause:   cause,
	}
}

// NewWriteError creates a request write error.
func NewWriteError(operation string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeWrite,
		Message: fmt.Sprintf("write error during %s", operation),
		Cause:   cause,
	}
}

// NewReadError creates a response read error.
func NewReadError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeRead,
		Message: "read error",
		Cause:   cause,
	}
}

// NewNoResponseError creates an error for an exhausted read attempt budget.
func NewNoResponseError() *Error {
	return &Error{
		Type:    ErrorTypeNoResponse,
		Message: "no response received after maximum attempts",
	}
}

// NewMalformedError creates a malformed-response error.
func NewMalformedError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeMalformed,
		Message: message,
		Cause:   cause,
	}
}

// NewTooManyRedirectsError creates a redirect-limit error.
func NewTooManyRedirectsError(limit int) *Error {
	return &Error{
		Type:    ErrorTypeRedirect,
		Message: fmt.Sprintf("too many redirects (limit %d)", limit),
	}
}

// NewStatusError creates an HTTP status error carrying the status and body.
func NewStatusError(status int, body []byte) *Error {
	return &Error{
		Type:    ErrorTypeStatus,
		Message: fmt.Sprintf("HTTP error: %d", status),
		Status:  status,
		Body:    body,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// IsTimeoutError checks if an error is a timeout error.
func IsTimeoutError(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Type == ErrorTypeTimeout {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// GetErrorType returns the error type if it's a structured error.
func GetErrorType(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// StatusCode returns the HTTP status carried by a status error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Type == ErrorTypeStatus {
		return e.Status
	}
	return 0
}
