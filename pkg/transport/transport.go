// Package transport provides the low-level TCP/TLS connection setup.
package transport

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/WhileEndless/gurl/pkg/constants"
	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/timing"
	"github.com/WhileEndless/gurl/pkg/tlsconfig"
)

// Config holds transport configuration for a single request cycle.
type Config struct {
	Secure bool
	Host   string
	Port   int

	// TLSMinVersion is the per-request minimum protocol version override
	// ("1.0".."1.3", empty for the platform default).
	TLSMinVersion string

	// HTTP2 advertises h2 via ALPN during the handshake.
	HTTP2 bool

	ConnTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Transport handles connection establishment and TLS negotiation.
type Transport struct {
	resolver *net.Resolver
}

// New creates a new Transport instance.
func New() *Transport {
	return &Transport{
		resolver: net.DefaultResolver,
	}
}

// NewWithResolver creates a new Transport with a custom resolver.
func NewWithResolver(resolver *net.Resolver) *Transport {
	return &Transport{
		resolver: resolver,
	}
}

// Connect resolves the host, opens a TCP connection with the configured
// timeouts and, for a secure scheme, upgrades it to a verified TLS session.
// Each redirect hop gets a brand-new connection; there is no reuse.
func (t *Transport) Connect(ctx context.Context, config Config, timer *timing.Timer) (net.Conn, error) {
	if err := t.validateConfig(config); err != nil {
		return nil, err
	}

	connTimeout := config.ConnTimeout
	if connTimeout <= 0 {
		connTimeout = constants.DefaultConnTimeout
	}

	dialAddr, err := t.resolveAddress(ctx, config, timer)
	if err != nil {
		return nil, err
	}

	conn, err := t.connectTCP(ctx, dialAddr, connTimeout, timer)
	if err != nil {
		return nil, errors.NewConnectionError(config.Host, config.Port, err)
	}

	if err := t.setDeadlines(conn, config); err != nil {
		conn.Close()
		return nil, err
	}

	if config.Secure {
		conn, err = t.upgradeTLS(ctx, conn, config, connTimeout, timer)
		if err != nil {
			return nil, errors.NewTLSError(config.Host, config.Port, err)
		}
	}

	return newIdleConn(conn, config), nil
}

func (t *Transport) validateConfig(config Config) error {
	if config.Host == "" {
		return errors.NewValidationError("host cannot be empty")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return errors.NewValidationError("port must be between 1 and 65535")
	}
	return nil
}

func (t *Transport) resolveAddress(ctx context.Context, config Config, timer *timing.Timer) (string, error) {
	timer.StartDNS()
	defer timer.EndDNS()

	addrs, err := t.resolver.LookupIPAddr(ctx, config.Host)
	if err != nil {
		return "", errors.NewDNSError(config.Host, err)
	}
	if len(addrs) == 0 {
		return "", errors.NewDNSError(config.Host, errors.NewValidationError("no IP addresses found"))
	}

	// Use the first address
	ip := addrs[0].IP.String()
	return net.JoinHostPort(ip, strconv.Itoa(config.Port)), nil
}

func (t *Transport) connectTCP(ctx context.Context, dialAddr string, timeout time.Duration, timer *timing.Timer) (net.Conn, error) {
	timer.StartTCP()
	defer timer.EndTCP()

	dialer := &net.Dialer{Timeout: timeout}
	return dialer.DialContext(ctx, "tcp", dialAddr)
}

// setDeadlines arms the initial socket deadlines so the TLS handshake is
// covered before the idle wrapper takes over.
func (t *Transport) setDeadlines(conn net.Conn, config Config) error {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout(config))); err != nil {
		return errors.NewTimeoutSetupError("read", err)
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout(config))); err != nil {
		return errors.NewTimeoutSetupError("write", err)
	}
	return nil
}

func readTimeout(config Config) time.Duration {
	if config.ReadTimeout > 0 {
		return config.ReadTimeout
	}
	return constants.DefaultReadTimeout
}

func writeTimeout(config Config) time.Duration {
	if config.WriteTimeout > 0 {
		return config.WriteTimeout
	}
	return constants.DefaultWriteTimeout
}

func (t *Transport) upgradeTLS(ctx context.Context, conn net.Conn, config Config, handshakeTimeout time.Duration, timer *timing.Timer) (net.Conn, error) {
	timer.StartTLS()
	defer timer.EndTLS()

	tlsCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	// Certificate and hostname verification are always enforced.
	tlsConfig := &tls.Config{
		MinVersion: tlsconfig.MinVersionFor(config.TLSMinVersion),
		ServerName: config.Host,
		NextProtos: []string{"http/1.1"},
	}
	if config.HTTP2 {
		tlsConfig.NextProtos = []string{"h2", "http/1.1"}
	}

	tlsConn := tls.Client(conn, tlsConfig)
	if err := tlsConn.HandshakeContext(tlsCtx); err != nil {
		conn.Close()
		return nil, err
	}

	return tlsConn, nil
}
