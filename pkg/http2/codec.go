package http2

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/http2"

	"github.com/WhileEndless/gurl/pkg/request"
	"github.com/WhileEndless/gurl/pkg/urlparse"
)

// requestStreamID is the single client-initiated stream the codec uses.
const requestStreamID = 1

// maxConcurrentStreams is the single setting advertised in the SETTINGS
// frame.
const maxConcurrentStreams = 100

// preface is the fixed 24-byte connection preface.
var preface = []byte(http2.ClientPreface)

// EncodeRequest serializes the spec as an HTTP/2 frame sequence: connection
// preface, one SETTINGS frame, one HEADERS frame on stream 1 and, when a
// body is present, one DATA frame.
//
// The header block is literal method/path/host/custom-header text, not
// HPACK. END_HEADERS is always set; END_STREAM is set on the HEADERS frame
// only when there is no body, otherwise on the DATA frame.
func EncodeRequest(spec request.Spec) ([]byte, error) {
	u, err := urlparse.Parse(spec.URL)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(preface)

	out.Write(buildSettingsFrame(map[http2.SettingID]uint32{
		http2.SettingMaxConcurrentStreams: maxConcurrentStreams,
	}))

	flags := http2.FlagHeadersEndHeaders
	if len(spec.Body) == 0 {
		flags |= http2.FlagHeadersEndStream
	}

	var block bytes.Buffer
	fmt.Fprintf(&block, "%s %s HTTP/2.0\r\nHost: %s\r\n", spec.Method, u.Path, u.Host)
	block.WriteString(strings.Join(spec.Headers, "\r\n"))
	block.WriteString("\r\n")

	out.Write(buildFrame(http2.FrameHeaders, flags, requestStreamID, block.Bytes()))

	if len(spec.Body) > 0 {
		out.Write(buildFrame(http2.FrameData, http2.FlagDataEndStream, requestStreamID, spec.Body))
	}

	return out.Bytes(), nil
}

// DecodeResponse walks the frame stream and concatenates DATA frame payloads
// into the response body. A leading connection preface is skipped if
// present. A frame header claiming more payload than remains stops
// iteration; partial frames are tolerated, not errors.
func DecodeResponse(raw []byte) []byte {
	if bytes.HasPrefix(raw, preface) {
		raw = raw[len(preface):]
	}

	var body []byte
	for {
		header, ok := parseFrameHeader(raw)
		if !ok {
			break
		}
		end := frameHeaderLen + int(header.Length)
		if end > len(raw) {
			break
		}
		if header.Type == http2.FrameData {
			body = append(body, raw[frameHeaderLen:end]...)
		}
		raw = raw[end:]
	}
	return body
}
