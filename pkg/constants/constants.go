// Package constants defines magic numbers and default values used throughout gurl
package constants

import "time"

// Connection timeouts
const (
	DefaultConnTimeout  = 10 * time.Second
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Response read loop limits
const (
	ReadChunkSize        = 8 * 1024         // scratch buffer per read call
	ResponseCapacityHint = 1024 * 1024      // initial accumulator capacity
	MaxResponseSize      = 10 * 1024 * 1024 // hard cap, response is truncated past this
	MaxReadAttempts      = 50               // overall retry budget for a read loop
	MaxIdleAttempts      = 5                // would-block retries once data has arrived
	RetrySleep           = 100 * time.Millisecond
)

// Redirect handling
const (
	MaxRedirects = 10
)

// Header scanning is limited to the leading portion of the block, matching
// the first-2KB window the header scans operate on.
const (
	HeaderScanWindow = 2048
)
