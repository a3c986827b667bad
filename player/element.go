// Package player defines the media element the playback controller drives,
// and implements it on top of mpv's JSON-IPC interface.
package player

import "io"

// Element is a media engine. Events are delivered in order on Events until Close.
type Element interface {
	// CanPlayType reports whether the engine opens manifests of the given MIME type itself.
	CanPlayType(mime string) bool

	// Load hands a URL to the engine.
	Load(url string) error

	// OpenStream (re)starts the engine reading media from the returned writer.
	// A previous stream is discarded. Engine time restarts at zero.
	OpenStream() (io.WriteCloser, error)

	Play() error
	Pause() error
	Seek(seconds float64) error

	// SetVolume takes a value in [0, 1].
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetSpeed(rate float64) error

	Events() <-chan Event

	Close() error
}

// Fullscreen is implemented by engines that own a window.
type Fullscreen interface {
	ToggleFullscreen() error
}
