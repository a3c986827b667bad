package hls

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures the way callers recover from them.
type ErrorKind int

const (
	// NetworkError means a manifest or fragment could not be fetched.
	NetworkError ErrorKind = iota
	// MediaError means the decode pipeline rejected data.
	MediaError
	// OtherError covers everything that cannot be recovered from.
	OtherError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network"
	case MediaError:
		return "media"
	default:
		return "other"
	}
}

// Error is reported on the event channel. The loader stops after reporting one.
type Error struct {
	Kind    ErrorKind
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Details)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Details, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrEncrypted     = errors.New("encrypted segments are not supported")
	ErrEmptyPlaylist = errors.New("playlist has no segments")
	ErrNoVariants    = errors.New("master playlist has no playable variants")
	ErrUnknownFormat = errors.New("segment is neither MPEG-TS nor fragmented MP4")
)

// HTTPStatusError is returned for non-2xx responses.
type HTTPStatusError struct {
	URL    string
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}
