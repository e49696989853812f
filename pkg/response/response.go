// Package response parses raw HTTP/1.1 response bytes: status line, header
// lookups, and chunked-transfer decoding.
//
// Header lookups are deliberately linear, case-insensitive prefix scans over
// the decoded lines with first-match-wins semantics. Header blocks are small
// and the scan window is capped, so no header map is built.
package response

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/WhileEndless/gurl/pkg/constants"
	"github.com/WhileEndless/gurl/pkg/errors"
)

var headerTerminator = []byte("\r\n\r\n")

// chunkedTerminator is the terminal zero-size chunk marker.
var chunkedTerminator = []byte("0\r\n\r\n")

// HeaderEnd returns the index just past the first "\r\n\r\n", or -1 when the
// header terminator has not been seen yet.
func HeaderEnd(raw []byte) int {
	i := bytes.Index(raw, headerTerminator)
	if i < 0 {
		return -1
	}
	return i + len(headerTerminator)
}

// scanWindow caps the region header scans look at.
func scanWindow(head []byte) string {
	if len(head) > constants.HeaderScanWindow {
		head = head[:constants.HeaderScanWindow]
	}
	return string(head)
}

// ContentLength extracts the Content-Length value from a header block.
func ContentLength(head []byte) (int, bool) {
	for _, line := range strings.Split(scanWindow(head), "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if !strings.HasPrefix(line, "content-length:") {
			continue
		}
		value := strings.TrimSpace(line[len("content-length:"):])
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// IsChunked reports whether the header block declares chunked transfer
// encoding.
func IsChunked(head []byte) bool {
	for _, line := range strings.Split(scanWindow(head), "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(line, "transfer-encoding:") && strings.Contains(line, "chunked") {
			return true
		}
	}
	return false
}

// IsGzipped reports whether the header block declares a gzip content
// encoding.
func IsGzipped(head []byte) bool {
	for _, line := range strings.Split(scanWindow(head), "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(line, "content-encoding:") && strings.Contains(line, "gzip") {
			return true
		}
	}
	return false
}

// Location extracts the Location header value from a header block.
func Location(head []byte) (string, bool) {
	for _, rawLine := range strings.Split(scanWindow(head), "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if !strings.HasPrefix(strings.ToLower(line), "location:") {
			continue
		}
		value := strings.TrimSpace(line[len("location:"):])
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

// HasChunkedTerminator reports whether the terminal chunk marker has been
// observed anywhere in the buffer.
func HasChunkedTerminator(raw []byte) bool {
	return bytes.Contains(raw, chunkedTerminator)
}

// ParseStatus parses the status line's second whitespace-delimited token as
// the numeric status code.
func ParseStatus(raw []byte) (int, error) {
	line := raw
	if i := bytes.IndexByte(raw, '\r'); i >= 0 {
		line = raw[:i]
	}

	fields := strings.Fields(string(line))
	if len(fields) < 2 {
		return 0, errors.NewMalformedError("missing status code", nil)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, errors.NewMalformedError("invalid status code", err)
	}
	return code, nil
}

// IsRedirect reports whether the status code triggers redirect handling.
func IsRedirect(status int) bool {
	switch status {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}

// DecodeChunked decodes a chunked transfer encoded body. The decoder is
// lenient: malformed hex, missing CRLFs, or truncated chunk data terminate
// decoding early with whatever full chunks were already accumulated.
func DecodeChunked(body []byte) []byte {
	var result []byte
	i := 0

	for i < len(body) {
		sizeEnd := bytes.Index(body[i:], []byte("\r\n"))
		if sizeEnd < 0 {
			break
		}
		sizeEnd += i
		if sizeEnd == i {
			break
		}

		size, err := strconv.ParseUint(strings.TrimSpace(string(body[i:sizeEnd])), 16, 32)
		if err != nil {
			break
		}
		if size == 0 {
			break
		}

		chunkStart := sizeEnd + 2
		if chunkStart+int(size) > len(body) {
			break
		}

		result = append(result, body[chunkStart:chunkStart+int(size)]...)

		// Skip the CRLF trailing the chunk data.
		i = chunkStart + int(size) + 2
	}

	return result
}
