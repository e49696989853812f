package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gohttp2 "golang.org/x/net/http2"

	"github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/request"
)

// serve starts a listener on a random port and handles each connection with
// the given function until the test ends.
func serve(t *testing.T, handler func(net.Conn)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				handler(conn)
			}()
		}
	}()

	return ln.Addr().String()
}

// drainRequest consumes the request head and returns the request line.
func drainRequest(conn net.Conn) string {
	reader := bufio.NewReader(conn)
	requestLine, _ := reader.ReadString('\n')
	for {
		line, err := reader.ReadString('\n')
		if err != nil || line == "\r\n" {
			break
		}
	}
	return strings.TrimRight(requestLine, "\r\n")
}

func TestDoContentLength(t *testing.T) {
	t.Parallel()

	gotLine := make(chan string, 1)
	addr := serve(t, func(conn net.Conn) {
		gotLine <- drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 13\r\nConnection: close\r\n\r\nHello, World!")
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/greeting",
		Method: "GET",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "Hello, World!", string(result.Body))
	assert.Equal(t, "GET /greeting HTTP/1.1", <-gotLine)
}

func TestDoChunked(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nConnection: close\r\n\r\n4\r\nTest\r\n0\r\n\r\n")
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/chunk",
		Method: "GET",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test", string(result.Body))
}

func TestDoConnectionClose(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		// Neither Content-Length nor chunked: size determined by close.
		fmt.Fprint(conn, "HTTP/1.0 200 OK\r\nConnection: close\r\n\r\nuntil close")
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/",
		Method: "GET",
	})
	require.NoError(t, err)
	assert.Equal(t, "until close", string(result.Body))
}

func TestDoFollowsRedirect(t *testing.T) {
	t.Parallel()

	targetLine := make(chan string, 1)
	target := serve(t, func(conn net.Conn) {
		targetLine <- drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nConnection: close\r\n\r\nfinal")
	})

	origin := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprintf(conn, "HTTP/1.1 301 Moved Permanently\r\nLocation: http://%s/p2\r\nContent-Length: 0\r\nConnection: close\r\n\r\n", target)
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:             "http://" + origin + "/p1",
		Method:          "GET",
		FollowRedirects: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "final", string(result.Body))
	assert.Equal(t, "GET /p2 HTTP/1.1", <-targetLine)
	assert.Equal(t, "http://"+target+"/p2", result.URL)
}

func TestDoRedirectNotFollowedWhenDisabled(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 302 Found\r\nLocation: http://example.invalid/\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/",
		Method: "GET",
	})
	require.NoError(t, err)
	assert.Equal(t, 302, result.Status)
}

func TestDoTooManyRedirects(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	addr := ln.Addr().String()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				drainRequest(conn)
				fmt.Fprintf(conn, "HTTP/1.1 302 Found\r\nLocation: http://%s/loop\r\nContent-Length: 0\r\nConnection: close\r\n\r\n", addr)
			}()
		}
	}()

	_, err = New().Do(context.Background(), request.Spec{
		URL:             "http://" + addr + "/loop",
		Method:          "GET",
		FollowRedirects: true,
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeRedirect, errors.GetErrorType(err))
}

func TestDoStatusError(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 500 Internal Server Error\r\nContent-Length: 4\r\nConnection: close\r\n\r\noops")
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/",
		Method: "GET",
	})
	require.Error(t, err)
	assert.Equal(t, 500, errors.StatusCode(err))
	require.NotNil(t, result)
	assert.Equal(t, 500, result.Status)
}

func TestDoPostBody(t *testing.T) {
	t.Parallel()

	received := make(chan string, 1)
	addr := serve(t, func(conn net.Conn) {
		reader := bufio.NewReader(conn)
		var contentLength int
		for {
			line, err := reader.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
			if n, ok := strings.CutPrefix(line, "Content-Length: "); ok {
				fmt.Sscanf(n, "%d", &contentLength)
			}
		}
		body := make([]byte, contentLength)
		io.ReadFull(reader, body)
		received <- string(body)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok")
	})

	_, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/submit",
		Method: "POST",
		Body:   []byte(`{"k":"v"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, <-received)
}

func TestDoConcurrentSharedClient(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok")
	})

	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		verbose := i%2 == 0
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.Do(context.Background(), request.Spec{
				URL:     "http://" + addr + "/",
				Method:  "GET",
				Verbose: verbose,
				Silent:  true,
			})
			assert.NoError(t, err)
			assert.Equal(t, "ok", string(result.Body))
		}()
	}
	wg.Wait()
}

func TestDoSlowBodyArrivesComplete(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		drainRequest(conn)
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 12\r\nConnection: close\r\n\r\n")
		for i := 0; i < 12; i++ {
			time.Sleep(150 * time.Millisecond)
			conn.Write([]byte{'a'})
		}
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/slow",
		Method: "GET",
	})
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaaaa", string(result.Body))
}

func TestDoConnectionRefused(t *testing.T) {
	t.Parallel()

	// Grab a port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/",
		Method: "GET",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConnection, errors.GetErrorType(err))
}

func TestDoBadURL(t *testing.T) {
	t.Parallel()

	_, err := New().Do(context.Background(), request.Spec{URL: "nope://x/", Method: "GET"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeURL, errors.GetErrorType(err))
}

func TestDoHTTP2(t *testing.T) {
	t.Parallel()

	addr := serve(t, func(conn net.Conn) {
		// Consume the preface and frames; the reduced framing sends
		// everything up front and the connection carries no length hints,
		// so just read what arrived before responding.
		buf := make([]byte, 4096)
		conn.Read(buf)

		var out []byte
		out = append(out, h2Frame(gohttp2.FrameHeaders, byte(gohttp2.FlagHeadersEndHeaders), 1, []byte("HTTP/2.0 200\r\n"))...)
		out = append(out, h2Frame(gohttp2.FrameData, byte(gohttp2.FlagDataEndStream), 1, []byte("frame body"))...)
		conn.Write(out)
	})

	result, err := New().Do(context.Background(), request.Spec{
		URL:    "http://" + addr + "/",
		Method: "GET",
		HTTP2:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "frame body", string(result.Body))
	assert.Zero(t, result.Status)
}

// h2Frame assembles a raw HTTP/2 frame for test fixtures.
func h2Frame(frameType gohttp2.FrameType, flags byte, streamID uint32, payload []byte) []byte {
	frame := []byte{
		byte(len(payload) >> 16), byte(len(payload) >> 8), byte(len(payload)),
		byte(frameType), flags,
		byte(streamID >> 24), byte(streamID >> 16), byte(streamID >> 8), byte(streamID),
	}
	return append(frame, payload...)
}
