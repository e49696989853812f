package reader

import (
	"fmt"

	"github.com/WhileEndless/gurl/pkg/constants"
	"github.com/WhileEndless/gurl/pkg/response"
)

// accumulator is the growing response buffer for one read loop. It tracks the
// header boundary once found and enforces the hard size cap by truncation.
type accumulator struct {
	buf       []byte
	headerEnd int // index past "\r\n\r\n", -1 until found
	truncated bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		buf:       make([]byte, 0, constants.ResponseCapacityHint),
		headerEnd: -1,
	}
}

func (a *accumulator) Append(p []byte) {
	a.buf = append(a.buf, p...)
	if a.headerEnd < 0 {
		a.headerEnd = response.HeaderEnd(a.buf)
	}
	if len(a.buf) > constants.MaxResponseSize {
		a.truncated = true
	}
}

func (a *accumulator) Len() int {
	return len(a.buf)
}

func (a *accumulator) Bytes() []byte {
	return a.buf
}

func (a *accumulator) Truncated() bool {
	return a.truncated
}

// complete decides whether the accumulated bytes form a logically complete
// response. Content-Length wins when present; chunked encoding completes on
// the terminal chunk marker; otherwise completion is left to connection
// close and complete keeps returning false.
func (a *accumulator) complete() (bool, string) {
	if a.headerEnd < 0 {
		return false, ""
	}

	head := a.buf[:a.headerEnd]
	if length, ok := response.ContentLength(head); ok {
		if len(a.buf) >= a.headerEnd+length {
			return true, fmt.Sprintf("Response complete based on Content-Length (%d bytes)", length)
		}
		return false, ""
	}

	if response.IsChunked(head) && response.HasChunkedTerminator(a.buf) {
		return true, "Chunked response complete"
	}

	return false, ""
}
