// Package http2 implements a reduced HTTP/2 framing variant: single stream,
// literal (non-HPACK) header blocks, no flow control. It exists to exchange
// frames with its own decoder, not to interoperate with conformant peers.
package http2

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/net/http2"
)

// frameHeaderLen is the fixed size of an HTTP/2 frame header.
const frameHeaderLen = 9

// FrameHeader is a decoded 9-byte frame header.
type FrameHeader struct {
	Length   uint32 // 24-bit payload length
	Type     http2.FrameType
	Flags    http2.Flags
	StreamID uint32 // 31 bits, reserved top bit masked off
}

// buildFrame assembles a raw frame from its components.
func buildFrame(frameType http2.FrameType, flags http2.Flags, streamID uint32, payload []byte) []byte {
	buf := make([]byte, frameHeaderLen, frameHeaderLen+len(payload))

	length := uint32(len(payload))
	buf[0] = byte(length >> 16)
	buf[1] = byte(length >> 8)
	buf[2] = byte(length)
	buf[3] = byte(frameType)
	buf[4] = byte(flags)
	binary.BigEndian.PutUint32(buf[5:9], streamID&0x7fffffff)

	return append(buf, payload...)
}

// parseFrameHeader decodes the 9-byte frame header at the start of data.
// Returns false when fewer than 9 bytes remain.
func parseFrameHeader(data []byte) (FrameHeader, bool) {
	if len(data) < frameHeaderLen {
		return FrameHeader{}, false
	}
	return FrameHeader{
		Length:   uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2]),
		Type:     http2.FrameType(data[3]),
		Flags:    http2.Flags(data[4]),
		StreamID: binary.BigEndian.Uint32(data[5:9]) & 0x7fffffff,
	}, true
}

// buildSettingsFrame builds a SETTINGS frame from id/value pairs.
func buildSettingsFrame(settings map[http2.SettingID]uint32) []byte {
	var payload bytes.Buffer
	for id, value := range settings {
		binary.Write(&payload, binary.BigEndian, uint16(id))
		binary.Write(&payload, binary.BigEndian, value)
	}
	return buildFrame(http2.FrameSettings, 0, 0, payload.Bytes())
}
