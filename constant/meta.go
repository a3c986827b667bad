// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Mafilu is the canonical application identifier used for filesystem paths and CLI branding.
	Mafilu = "mafilu"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent with every manifest and segment request.
	UserAgent = "mafilu/" + Version + " (+https://mafilu.com)"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
