// Package request defines the request specification and HTTP/1.1 serialization.
package request

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/WhileEndless/gurl/pkg/urlparse"
)

// Spec is the immutable per-invocation request specification. The transport
// layer only reads it; redirect hops clone it with an updated URL.
type Spec struct {
	URL     string
	Method  string
	Headers []string // raw header lines, sent verbatim in order
	Body    []byte

	UserAgent string
	BasicAuth string // "user:pass", empty when unset

	TLSMinVersion   string // "1.0".."1.3", empty for the platform default
	FollowRedirects bool
	HTTP2           bool

	// Output shaping, consumed by the response side.
	Output         string // file path, empty for stdout
	IncludeHeaders bool
	HeadOnly       bool
	Compressed     bool

	// Reporting behavior.
	Verbose  bool
	Silent   bool
	FailFast bool
}

// WithURL returns a copy of the spec pointing at a new absolute URL.
func (s Spec) WithURL(url string) Spec {
	s.URL = url
	return s
}

// Build serializes the spec into an HTTP/1.1 request byte stream.
//
// Header order is deterministic: request line, Host, Connection: close,
// User-Agent (if set), Authorization (if basic auth is set), caller headers
// verbatim in the order given, Content-Length (if a body is present), blank
// line, body. The caller is responsible for the well-formedness of its own
// header lines; they are neither validated nor deduplicated.
func Build(spec Spec) ([]byte, error) {
	u, err := urlparse.Parse(spec.URL)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n", spec.Method, u.Path, u.Host)

	if spec.UserAgent != "" {
		fmt.Fprintf(&buf, "User-Agent: %s\r\n", spec.UserAgent)
	}

	if spec.BasicAuth != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(spec.BasicAuth))
		fmt.Fprintf(&buf, "Authorization: Basic %s\r\n", encoded)
	}

	for _, header := range spec.Headers {
		buf.WriteString(header)
		buf.WriteString("\r\n")
	}

	if len(spec.Body) > 0 {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(spec.Body))
	}

	buf.WriteString("\r\n")
	buf.Write(spec.Body)

	return buf.Bytes(), nil
}
