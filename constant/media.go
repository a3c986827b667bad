package constant

// MIME types negotiated with the media engine.
const (
	// MimeHLS is the registered type of an HLS playlist.
	MimeHLS = "application/vnd.apple.mpegurl"

	// MimeHLSLegacy is the type many CDNs still serve playlists with.
	MimeHLSLegacy = "audio/mpegurl"
)

// ResumeKeyPrefix namespaces resume records inside shared key/value storage.
const ResumeKeyPrefix = "mafilu_video_"
