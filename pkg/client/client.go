// Package client orchestrates a full request/response cycle: build, connect,
// write, read, interpret, and redirect-chasing.
package client

import (
	"context"
	"fmt"
	"net"

	"github.com/WhileEndless/gurl/pkg/constants"
	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/http2"
	"github.com/WhileEndless/gurl/pkg/reader"
	"github.com/WhileEndless/gurl/pkg/request"
	"github.com/WhileEndless/gurl/pkg/timing"
	"github.com/WhileEndless/gurl/pkg/transport"
	"github.com/WhileEndless/gurl/pkg/urlparse"
)

// Result is the interpreted outcome of a request chain.
type Result struct {
	// URL is the final URL after any redirects.
	URL string

	// Status is the numeric status code. Zero on the HTTP/2 path, which has
	// no decoded status.
	Status int

	// Head holds the raw header bytes including the terminator. Empty on
	// the HTTP/2 path.
	Head []byte

	// Body is the final decoded body.
	Body []byte

	// Metrics carries the timings of the last hop.
	Metrics timing.Metrics
}

// Client executes request specs over raw TCP/TLS connections. A Client holds
// no per-request state and is safe for concurrent use.
type Client struct {
	transport *transport.Transport
}

// New returns a new Client instance.
func New() *Client {
	return &Client{
		transport: transport.New(),
	}
}

// NewWithTransport creates a Client with a custom transport.
func NewWithTransport(t *transport.Transport) *Client {
	return &Client{
		transport: t,
	}
}

// Do executes the spec and follows redirects when enabled. Redirects are an
// explicit loop with a hop counter rather than recursion; each hop opens a
// brand-new connection. Exceeding the hop limit is a fatal error; a redirect
// status without a usable Location header falls through to normal
// processing.
func (c *Client) Do(ctx context.Context, spec request.Spec) (*Result, error) {
	current := spec
	hops := 0

	for {
		raw, metrics, err := c.exchange(ctx, current)
		if err != nil {
			return nil, err
		}

		if current.Verbose && !current.Silent {
			fmt.Printf("Received %d bytes\n", len(raw))
		}

		if current.HTTP2 {
			return &Result{
				URL:     current.URL,
				Body:    http2.DecodeResponse(raw),
				Metrics: metrics,
			}, nil
		}

		result, location, err := Interpret(raw, current)
		if result != nil {
			result.URL = current.URL
			result.Metrics = metrics
		}
		if err != nil {
			return result, err
		}

		if location == "" {
			return result, nil
		}

		if hops >= constants.MaxRedirects {
			return nil, errors.NewTooManyRedirectsError(constants.MaxRedirects)
		}
		hops++

		if current.Verbose && !current.Silent {
			fmt.Printf("Following redirect to: %s\n", location)
		}
		current = current.WithURL(location)
	}
}

// exchange performs one network round trip: serialize the request, connect,
// write, and read the complete raw response.
func (c *Client) exchange(ctx context.Context, spec request.Spec) ([]byte, timing.Metrics, error) {
	u, err := urlparse.Parse(spec.URL)
	if err != nil {
		return nil, timing.Metrics{}, err
	}

	var req []byte
	if spec.HTTP2 {
		req, err = http2.EncodeRequest(spec)
	} else {
		req, err = request.Build(spec)
	}
	if err != nil {
		return nil, timing.Metrics{}, err
	}

	timer := timing.NewTimer()

	if spec.Verbose && !spec.Silent {
		if u.Secure {
			fmt.Printf("Connecting to %s (HTTPS)...\n", u.Host)
		} else {
			fmt.Printf("Connecting to %s (HTTP)...\n", u.Host)
		}
	}

	conn, err := c.transport.Connect(ctx, transport.Config{
		Secure:        u.Secure,
		Host:          u.Host,
		Port:          u.Port,
		TLSMinVersion: spec.TLSMinVersion,
		HTTP2:         spec.HTTP2,
		ConnTimeout:   constants.DefaultConnTimeout,
		ReadTimeout:   constants.DefaultReadTimeout,
		WriteTimeout:  constants.DefaultWriteTimeout,
	}, timer)
	if err != nil {
		return nil, timer.GetMetrics(), err
	}
	defer conn.Close()

	if spec.Verbose && !spec.Silent {
		fmt.Println("Sending request...")
	}

	if err := c.send(conn, req); err != nil {
		return nil, timer.GetMetrics(), err
	}

	if spec.Verbose && !spec.Silent {
		fmt.Println("Waiting for response...")
	}

	rd := reader.Reader{Verbose: spec.Verbose && !spec.Silent}
	raw, err := rd.Read(conn, timer)
	return raw, timer.GetMetrics(), err
}

// send writes the full request, handling partial writes.
func (c *Client) send(conn net.Conn, req []byte) error {
	written := 0
	for written < len(req) {
		n, err := conn.Write(req[written:])
		if err != nil {
			return errors.NewWriteError("writing request", err)
		}
		written += n
	}
	return nil
}
