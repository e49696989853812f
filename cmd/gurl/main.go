// Command gurl is a minimal curl-like HTTP client built on raw sockets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/WhileEndless/gurl/pkg/client"
	gurlerrors "github.com/WhileEndless/gurl/pkg/errors"
	"github.com/WhileEndless/gurl/pkg/output"
	"github.com/WhileEndless/gurl/pkg/response"
)

// Version is the tool version reported by --version.
const Version = "1.0.0"

// Exit codes. 22 matches curl's exit code for --fail with an HTTP error.
const (
	exitOK       = 0
	exitFailure  = 1
	exitHTTPFail = 22
)

func main() {
	os.Exit(Run(os.Args[1:]))
}

// Run parses the arguments, executes the request, and returns the process
// exit code.
func Run(args []string) int {
	spec, showVersion, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'gurl --help' for more information.")
		return exitFailure
	}
	if showVersion {
		fmt.Printf("gurl version %s\n", Version)
		return exitOK
	}

	result, err := client.New().Do(context.Background(), spec)
	if err != nil {
		return reportError(err, spec.Silent, spec.FailFast)
	}

	if spec.Verbose && !spec.Silent {
		fmt.Printf("Timing: %s\n", result.Metrics)
	}

	if spec.HeadOnly {
		sink := output.Sink{}
		if err := sink.WriteHead(result.Head); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitFailure
		}
		return exitOK
	}

	body := result.Body
	if spec.Compressed && response.IsGzipped(result.Head) {
		body = output.Gunzip(body)
	}

	sink := output.Sink{
		Path:           spec.Output,
		IncludeHeaders: spec.IncludeHeaders,
		Silent:         spec.Silent,
	}
	if err := sink.Write(result.Head, body); err != nil {
		if !spec.Silent {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return exitFailure
	}

	return exitOK
}

// reportError maps a request failure to stderr output and an exit code.
// Fail-fast short-circuits HTTP errors with no output at all; silent mode
// suppresses messages but preserves exit codes.
func reportError(err error, silent, failFast bool) int {
	if status := gurlerrors.StatusCode(err); status != 0 {
		if failFast {
			return exitHTTPFail
		}
		if !silent {
			fmt.Fprintf(os.Stderr, "HTTP Error: %d\n", status)
			var e *gurlerrors.Error
			// Only text bodies are echoed; binary bodies stay off stderr.
			if errors.As(err, &e) && len(e.Body) > 0 && utf8.Valid(e.Body) {
				fmt.Fprintf(os.Stderr, "Response body: %s\n", e.Body)
			}
		}
		return exitFailure
	}

	if !silent {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	return exitFailure
}
