// Package urlparse decomposes absolute http/https URLs into their components.
package urlparse

import (
	"strconv"
	"strings"

	"github.com/WhileEndless/gurl/pkg/errors"
)

// Parsed holds the components of a decomposed URL.
type Parsed struct {
	Secure bool   // true for https
	Host   string // never empty
	Port   int    // defaults to 443 (https) or 80 (http)
	Path   string // always prefixed with "/", query and fragment included as given
}

// Scheme returns the URL scheme string.
func (p Parsed) Scheme() string {
	if p.Secure {
		return "https"
	}
	return "http"
}

// Parse decomposes an absolute URL. The URL must start with http:// or
// https://; anything else is a format error. The remainder is split at the
// first "/" into host[:port] and path. No percent-decoding is performed and
// query/fragment stay part of the path.
func Parse(raw string) (Parsed, error) {
	var secure bool
	var rest string
	switch {
	case strings.HasPrefix(raw, "https://"):
		secure = true
		rest = raw[len("https://"):]
	case strings.HasPrefix(raw, "http://"):
		rest = raw[len("http://"):]
	default:
		return Parsed{}, errors.NewURLError("URL must start with http:// or https://")
	}

	hostport := rest
	path := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostport = rest[:i]
		path = rest[i+1:]
	}

	host := hostport
	port := 80
	if secure {
		port = 443
	}
	if i := strings.IndexByte(hostport, ':'); i >= 0 {
		host = hostport[:i]
		p, err := strconv.ParseUint(hostport[i+1:], 10, 16)
		if err != nil {
			return Parsed{}, errors.NewURLError("invalid port")
		}
		port = int(p)
	}

	if host == "" {
		return Parsed{}, errors.NewURLError("invalid host")
	}

	return Parsed{
		Secure: secure,
		Host:   host,
		Port:   port,
		Path:   "/" + path,
	}, nil
}
