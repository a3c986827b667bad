// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Engine - these keys select and tune the external engine that renders video.
const (
	Player          = "player.default"
	PlayerNativeHLS = "player.native_hls"
	PlayerAutoplay  = "player.autoplay"
	PlayerVolume    = "player.volume"
)

// Adaptive Streaming - these keys tune the software HLS client.
const (
	StreamABRInitialBandwidth  = "stream.abr_initial_bandwidth"
	StreamABRSafetyFactor      = "stream.abr_safety_factor"
	StreamFragmentRetries      = "stream.fragment_retries"
	StreamNetworkRetryInterval = "stream.network_retry_interval"
)

// Resume Positions - these keys configure where playback positions are persisted.
const (
	ResumeEnable    = "resume.enable"
	ResumeBackend   = "resume.backend"
	ResumeRedisAddr = "resume.redis_addr"
	ResumeRedisDB   = "resume.redis_db"
)

// Iconography
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Metrics
const (
	MetricsAddr = "metrics.addr"
)
