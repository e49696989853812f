package client

import (
	"fmt"
	"strings"

	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/request"
	"github.com/WhileEndless/gurl/pkg/response"
)

// Interpret parses a completed HTTP/1.1 response buffer. It is a pure
// function of its inputs: re-running it on the same bytes yields the same
// result.
//
// The returned location is non-empty when redirect-following is enabled, the
// status is a redirect, and a usable Location header is present; the caller
// re-issues the request against it. A status >= 400 yields a status error
// carrying the code and the raw body.
func Interpret(raw []byte, spec request.Spec) (*Result, string, error) {
	headerEnd := response.HeaderEnd(raw)
	if headerEnd < 0 {
		return nil, "", errors.NewMalformedError("invalid HTTP response", nil)
	}

	status, err := response.ParseStatus(raw)
	if err != nil {
		return nil, "", err
	}

	head := raw[:headerEnd]

	if spec.Verbose && !spec.Silent {
		printHead(head)
	}

	if spec.FollowRedirects && response.IsRedirect(status) {
		if location, ok := response.Location(head); ok {
			return &Result{Status: status, Head: head}, location, nil
		}
		// No usable Location: fall through to normal processing.
	}

	if status >= 400 {
		return &Result{Status: status, Head: head}, "", errors.NewStatusError(status, raw[headerEnd:])
	}

	body := raw[headerEnd:]
	if response.IsChunked(head) {
		body = response.DecodeChunked(body)
	}

	return &Result{Status: status, Head: head, Body: body}, "", nil
}

// printHead reports the status line and the essential headers, matching the
// verbose output shape of curl-like tools.
func printHead(head []byte) {
	lines := strings.Split(string(head), "\r\n")
	if len(lines) == 0 {
		return
	}
	fmt.Printf("Status: %s\n", lines[0])

	seen := make(map[string]bool)
	for _, line := range lines[1:] {
		lower := strings.ToLower(line)
		for _, prefix := range []string{"content-type:", "content-length:", "transfer-encoding:"} {
			// First match wins for each header kind.
			if strings.HasPrefix(lower, prefix) && !seen[prefix] {
				seen[prefix] = true
				fmt.Println(line)
			}
		}
	}
	fmt.Println()
}
