// Package reader implements the incremental response read loop.
package reader

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/WhileEndless/gurl/pkg/constants"
	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/timing"
)

// Reader accumulates response bytes from a stream until the response is
// logically complete. All retry counters are loop-local; a Reader is
// stateless and safe to reuse across cycles.
type Reader struct {
	// Verbose enables curl-style progress lines on stdout.
	Verbose bool
}

// New returns a new Reader instance.
func New() *Reader {
	return &Reader{}
}

// Read reads from the stream into a growing accumulator, deciding completion
// incrementally:
//
//   - once the header terminator is seen, Content-Length bounds the read;
//   - with chunked transfer encoding, the terminal "0\r\n\r\n" marker ends it;
//   - otherwise reading continues until the peer closes the connection.
//
// Responses over the hard size cap are truncated, not failed. An I/O error
// after some data has arrived yields the partial response; with zero bytes
// it is a fatal read error. Exhausting the attempt budget with nothing read
// is a distinct no-response error.
func (r *Reader) Read(stream io.Reader, timer *timing.Timer) ([]byte, error) {
	acc := newAccumulator()
	scratch := make([]byte, constants.ReadChunkSize)
	attempts := 0

	if timer != nil {
		timer.StartTTFB()
	}

	for attempts < constants.MaxReadAttempts {
		n, err := stream.Read(scratch)

		switch {
		case n > 0:
			if timer != nil && acc.Len() == 0 {
				timer.EndTTFB()
			}
			attempts = 0
			acc.Append(scratch[:n])

			if done, why := acc.complete(); done {
				if r.Verbose {
					fmt.Println(why)
				}
				return acc.Bytes(), nil
			}
			if acc.Truncated() {
				if r.Verbose {
					fmt.Printf("Response too large, truncating at %d bytes\n", constants.MaxResponseSize)
				}
				return acc.Bytes(), nil
			}
			// Reads can return both data and an error; the error surfaces
			// again on the next call, so only the data matters here.

		case err == nil || err == io.EOF:
			// Zero-byte read. After data it is a clean end-of-stream; before
			// any data the server simply hasn't sent anything yet.
			if attempts > 0 || acc.Len() > 0 {
				return acc.Bytes(), nil
			}
			if r.Verbose {
				fmt.Println("No data received, retrying...")
			}
			time.Sleep(constants.RetrySleep)
			attempts++

		case isWouldBlock(err):
			if acc.Len() > 0 {
				attempts++
				if attempts >= constants.MaxIdleAttempts {
					if r.Verbose {
						fmt.Printf("No more data after %d attempts, considering response complete\n", attempts)
					}
					return acc.Bytes(), nil
				}
			} else {
				attempts++
			}
			time.Sleep(constants.RetrySleep)

		default:
			if acc.Len() > 0 {
				if r.Verbose {
					fmt.Printf("Read error, but processing partial response of %d bytes: %v\n", acc.Len(), err)
				}
				return acc.Bytes(), nil
			}
			return nil, errors.NewReadError(err)
		}
	}

	if acc.Len() == 0 {
		return nil, errors.NewNoResponseError()
	}
	return acc.Bytes(), nil
}

// isWouldBlock reports whether the error is a would-block/timeout condition
// worth retrying rather than a hard failure.
func isWouldBlock(err error) bool {
	if netErr, ok := err.(net.Error); ok {
		return netErr.Timeout()
	}
	return false
}
