// Package output writes the final response bytes to their sink.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Sink selects where the response lands: a file when Path is set, stdout
// otherwise.
type Sink struct {
	Path           string
	IncludeHeaders bool
	Silent         bool
}

// Write delivers the body, optionally preceded by the raw header bytes, to
// the configured destination. Saving to a file reports success with a
// confirmation line unless silent.
func (s Sink) Write(head, body []byte) error {
	if s.Path == "" {
		return s.writeStdout(head, body)
	}
	return s.writeFile(head, body)
}

func (s Sink) writeFile(head, body []byte) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("file error: %w", err)
	}
	defer f.Close()

	if s.IncludeHeaders {
		if _, err := f.Write(head); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if !s.Silent {
		fmt.Printf("Response body saved to '%s'\n", s.Path)
	}
	return nil
}

func (s Sink) writeStdout(head, body []byte) error {
	if s.IncludeHeaders {
		os.Stdout.Write(head)
	}
	os.Stdout.Write(body)
	fmt.Println()
	return nil
}

// WriteHead prints only the raw header bytes, for head-only mode. Head-only
// output always goes to stdout, even when a file path is configured.
func (s Sink) WriteHead(head []byte) error {
	_, err := os.Stdout.Write(head)
	return err
}

// Gunzip decompresses a gzip body. Decoding is best-effort: on any error the
// original bytes are returned unchanged, keeping the tool's
// partial-data-over-failure posture.
func Gunzip(body []byte) []byte {
	r, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
