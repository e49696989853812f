package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMinimalGet(t *testing.T) {
	t.Parallel()

	got, err := Build(Spec{URL: "http://h/p", Method: "GET"})
	require.NoError(t, err)
	assert.Equal(t, "GET /p HTTP/1.1\r\nHost: h\r\nConnection: close\r\n\r\n", string(got))
}

func TestBuildHeaderOrder(t *testing.T) {
	t.Parallel()

	got, err := Build(Spec{
		URL:       "http://example.com/submit",
		Method:    "POST",
		Headers:   []string{"X-First: 1", "X-Second: 2"},
		Body:      []byte("hello"),
		UserAgent: "gurl-test",
		BasicAuth: "user:pass",
	})
	require.NoError(t, err)

	want := "POST /submit HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Connection: close\r\n" +
		"User-Agent: gurl-test\r\n" +
		"Authorization: Basic dXNlcjpwYXNz\r\n" +
		"X-First: 1\r\n" +
		"X-Second: 2\r\n" +
		"Content-Length: 5\r\n" +
		"\r\n" +
		"hello"
	assert.Equal(t, want, string(got))
}

func TestBuildBasicAuth(t *testing.T) {
	t.Parallel()

	got, err := Build(Spec{URL: "http://h/", Method: "GET", BasicAuth: "user:pass"})
	require.NoError(t, err)
	assert.Contains(t, string(got), "Authorization: Basic dXNlcjpwYXNz\r\n")
}

func TestBuildHeadersVerbatim(t *testing.T) {
	t.Parallel()

	// The builder neither validates nor deduplicates caller headers.
	got, err := Build(Spec{
		URL:     "http://h/",
		Method:  "GET",
		Headers: []string{"X-Dup: a", "X-Dup: b", "not even a header"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(got), "X-Dup: a\r\nX-Dup: b\r\nnot even a header\r\n")
}

func TestBuildNoBodyNoContentLength(t *testing.T) {
	t.Parallel()

	got, err := Build(Spec{URL: "http://h/", Method: "GET"})
	require.NoError(t, err)
	assert.NotContains(t, string(got), "Content-Length")
	assert.True(t, strings.HasSuffix(string(got), "\r\n\r\n"))
}

func TestBuildBadURL(t *testing.T) {
	t.Parallel()

	_, err := Build(Spec{URL: "gopher://h/", Method: "GET"})
	require.Error(t, err)
}

func TestWithURL(t *testing.T) {
	t.Parallel()

	spec := Spec{URL: "http://a/", Method: "GET", Headers: []string{"X: 1"}}
	hop := spec.WithURL("http://b/next")

	assert.Equal(t, "http://b/next", hop.URL)
	assert.Equal(t, "http://a/", spec.URL)
	assert.Equal(t, spec.Headers, hop.Headers)
}
