package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/WhileEndless/gurl/pkg/request"
)

// tlsVersionEnv lets the environment supply a default minimum TLS version,
// overridden by --tls-version.
const tlsVersionEnv = "GURL_TLS_VERSION"

func parseFlags(args []string) (request.Spec, bool, error) {
	fs := pflag.NewFlagSet("gurl", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = printUsage

	var (
		outputPath = fs.StringP("output", "o", "", "save the response body to a file")
		reqMethod  = fs.StringP("request", "X", "", "HTTP method to use (default: GET)")
		method     = fs.StringP("method", "m", "", "HTTP method to use (alias for -X)")
		headers    = fs.StringArrayP("header", "H", nil, "add a header to the request")
		data       = fs.StringP("data", "d", "", "add data to the request body (@file reads from a file)")
		include    = fs.BoolP("include", "i", false, "include response headers in output")
		head       = fs.BoolP("head", "I", false, "fetch headers only (HEAD request)")
		location   = fs.BoolP("location", "L", false, "follow redirects")
		silent     = fs.BoolP("silent", "s", false, "silent mode (no progress or error output)")
		failFast   = fs.BoolP("fail", "f", false, "fail silently on HTTP errors")
		userAgent  = fs.StringP("user-agent", "A", "", "custom User-Agent string")
		user       = fs.StringP("user", "u", "", "server authentication credentials (USER:PASS)")
		verbose    = fs.BoolP("verbose", "v", false, "enable verbose output")
		tlsVersion = fs.String("tls-version", "", "minimum TLS version (1.0, 1.1, 1.2, 1.3)")
		useHTTP2   = fs.Bool("http2", false, "use the simplified HTTP/2 framing")
		compressed = fs.Bool("compressed", false, "request a gzip body and decompress it")
		version    = fs.Bool("version", false, "print version and exit")
	)

	if err := fs.Parse(args); err != nil {
		return request.Spec{}, false, err
	}
	if *version {
		return request.Spec{}, true, nil
	}

	if fs.NArg() < 1 {
		return request.Spec{}, false, errors.New("missing URL")
	}
	if fs.NArg() > 1 {
		return request.Spec{}, false, fmt.Errorf("unexpected argument: %s", fs.Arg(1))
	}

	spec := request.Spec{
		URL:             fs.Arg(0),
		Method:          "GET",
		Headers:         *headers,
		UserAgent:       *userAgent,
		BasicAuth:       *user,
		FollowRedirects: *location,
		HTTP2:           *useHTTP2,
		Output:          *outputPath,
		IncludeHeaders:  *include,
		Compressed:      *compressed,
		Verbose:         *verbose,
		Silent:          *silent,
		FailFast:        *failFast,
	}

	switch {
	case *reqMethod != "":
		spec.Method = strings.ToUpper(*reqMethod)
	case *method != "":
		spec.Method = strings.ToUpper(*method)
	}

	if *data != "" {
		body, err := readData(*data)
		if err != nil {
			return request.Spec{}, false, err
		}
		spec.Body = body
		// Data without an explicit method implies POST.
		if spec.Method == "GET" {
			spec.Method = "POST"
		}
	}

	if *head {
		spec.HeadOnly = true
		spec.Method = "HEAD"
	}

	spec.TLSMinVersion = os.Getenv(tlsVersionEnv)
	if *tlsVersion != "" {
		spec.TLSMinVersion = *tlsVersion
	}

	if spec.Compressed {
		spec.Headers = append(spec.Headers, "Accept-Encoding: gzip")
	}

	return spec, false, nil
}

// readData resolves a --data argument, reading from a file when the value
// starts with "@".
func readData(arg string) ([]byte, error) {
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}
		return content, nil
	}
	return []byte(arg), nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `gurl - a minimal HTTP client

Usage:
    gurl [OPTIONS] <URL>

Options:
    -o, --output <FILE>       Save the response body to a file
    -X, --request <METHOD>    HTTP method to use (default: GET)
    -m, --method <METHOD>     HTTP method to use (alias for -X)
    -H, --header <HEADER>     Add a header to the request (repeatable)
    -d, --data <DATA>         Add data to the request body
                              Use @filename to read from file
    -i, --include             Include response headers in output
    -I, --head                Fetch headers only (HEAD request)
    -L, --location            Follow redirects
    -s, --silent              Silent mode (no progress output)
    -f, --fail                Fail silently on HTTP errors
    -A, --user-agent <NAME>   Custom User-Agent string
    -u, --user <USER:PASS>    Server authentication credentials
    -v, --verbose             Enable verbose output
        --tls-version <VER>   Set minimum TLS version (1.0, 1.1, 1.2, 1.3)
        --http2               Use the simplified HTTP/2 framing
        --compressed          Request and decompress a gzip body
        --version             Print version and exit
    -h, --help                Display this help message

Environment Variables:
    GURL_TLS_VERSION          Set TLS version (overridden by --tls-version)

Examples:
    gurl https://example.com
    gurl -X POST -H "Content-Type: application/json" -d '{"key":"value"}' https://api.example.com
    gurl -o response.html https://example.com
    gurl -L http://example.com/moved
`)
}
