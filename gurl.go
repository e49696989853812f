// Package gurl provides a raw-socket HTTP client for command-line use. It
// builds wire-level HTTP/1.1 requests (or a reduced HTTP/2 frame sequence),
// transmits them over plain or TLS-wrapped TCP, and incrementally reads and
// interprets the response stream.
package gurl

import (
	"context"

	"github.com/WhileEndless/gurl/pkg/client"
	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/request"
	"github.com/WhileEndless/gurl/pkg/timing"
)

// Version is the current version of the gurl tool
const Version = "1.0.0"

// Re-export key types for easier usage
type (
	// Spec is the immutable per-invocation request specification.
	Spec = request.Spec

	// Result is the interpreted outcome of a request chain.
	Result = client.Result

	// Metrics captures detailed timing information for a request.
	Metrics = timing.Metrics

	// Error represents a structured error with context information.
	Error = errors.Error
)

// Re-export error types for convenience
const (
	ErrorTypeURL        = errors.ErrorTypeURL
	ErrorTypeDNS        = errors.ErrorTypeDNS
	ErrorTypeConnection = errors.ErrorTypeConnection
	ErrorTypeTLS        = errors.ErrorTypeTLS
	ErrorTypeTimeout    = errors.ErrorTypeTimeout
	ErrorTypeWrite      = errors.ErrorTypeWrite
	ErrorTypeRead       = errors.ErrorTypeRead
	ErrorTypeNoResponse = errors.ErrorTypeNoResponse
	ErrorTypeMalformed  = errors.ErrorTypeMalformed
	ErrorTypeRedirect   = errors.ErrorTypeRedirect
	ErrorTypeStatus     = errors.ErrorTypeStatus
)

// Do executes a request spec with a fresh client.
func Do(ctx context.Context, spec Spec) (*Result, error) {
	return client.New().Do(ctx, spec)
}

// GetErrorType returns the error type if it's a structured error.
func GetErrorType(err error) string {
	return string(errors.GetErrorType(err))
}

// StatusCode returns the HTTP status carried by a status error, or 0.
func StatusCode(err error) int {
	return errors.StatusCode(err)
}
