// Package tlsconfig provides helpers and constants for TLS version negotiation.
package tlsconfig

import "crypto/tls"

// TLS protocol version identifiers.
const (
	// TLS 1.0 (DEPRECATED - weak, use only for legacy compatibility)
	VersionTLS10 uint16 = tls.VersionTLS10 // 0x0301

	// TLS 1.1 (DEPRECATED - weak, use only for legacy compatibility)
	VersionTLS11 uint16 = tls.VersionTLS11 // 0x0302

	// TLS 1.2 (RECOMMENDED - widely supported and secure)
	VersionTLS12 uint16 = tls.VersionTLS12 // 0x0303

	// TLS 1.3 (PREFERRED - most secure, modern standard)
	VersionTLS13 uint16 = tls.VersionTLS13 // 0x0304
)

// NoExplicitFloor means no MinVersion is pinned and the TLS stack's own
// default applies.
const NoExplicitFloor uint16 = 0

// ParseVersion maps a version string from the CLI ("1.0", "1.1", "1.2",
// "1.3") to a minimum protocol version. "1.3" maps to NoExplicitFloor: not
// every TLS stack lets a caller pin 1.3 as a minimum, so the floor is left
// to the stack's default rather than enforced. Unknown strings also yield
// NoExplicitFloor.
func ParseVersion(version string) uint16 {
	switch version {
	case "1.0":
		return VersionTLS10
	case "1.1":
		return VersionTLS11
	case "1.2":
		return VersionTLS12
	case "1.3":
		return NoExplicitFloor
	default:
		return NoExplicitFloor
	}
}

// DefaultMinVersion returns the process-wide default minimum protocol
// version. Conservatively TLS 1.2 on every supported platform.
func DefaultMinVersion() uint16 {
	return VersionTLS12
}

// MinVersionFor resolves the minimum protocol version for a request:
// an explicit per-request override wins, otherwise the platform default.
func MinVersionFor(override string) uint16 {
	if override != "" {
		return ParseVersion(override)
	}
	return DefaultMinVersion()
}

// VersionName returns a human-readable name for a TLS version.
func VersionName(version uint16) string {
	switch version {
	case VersionTLS10:
		return "TLS 1.0"
	case VersionTLS11:
		return "TLS 1.1"
	case VersionTLS12:
		return "TLS 1.2"
	case VersionTLS13:
		return "TLS 1.3"
	case NoExplicitFloor:
		return "default"
	default:
		return "Unknown"
	}
}

// IsVersionDeprecated returns true if the version is deprecated/insecure.
func IsVersionDeprecated(version uint16) bool {
	return version != NoExplicitFloor && version < VersionTLS12
}
