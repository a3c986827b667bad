package hls

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/grafov/m3u8"
)

// segment is one media fragment on the playlist timeline.
type segment struct {
	seq      uint64
	uri      string
	init     string
	start    float64
	duration float64
}

func (s segment) end() float64 {
	return s.start + s.duration
}

// mediaPlaylist is a decoded media playlist with absolute fragment start times.
type mediaPlaylist struct {
	segments []segment
	target   time.Duration
	live     bool
}

// duration is the timeline position where the last fragment ends. For a
// finished playlist that is the sum of EXTINF durations; a live window
// reports how far the timeline reaches.
func (p *mediaPlaylist) duration() float64 {
	if len(p.segments) == 0 {
		return 0
	}
	return p.segments[len(p.segments)-1].end()
}

// indexAt returns the fragment containing position, or -1 past the end.
// Positions before the first fragment map to it.
func (p *mediaPlaylist) indexAt(position float64) int {
	const epsilon = 1e-3
	for i, s := range p.segments {
		if position+epsilon < s.end() {
			return i
		}
	}
	return -1
}

// decode parses a manifest body. Exactly one of the results is non-nil on success.
func decode(body []byte) (*m3u8.MasterPlaylist, *m3u8.MediaPlaylist, error) {
	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return nil, nil, err
	}

	switch listType {
	case m3u8.MASTER:
		return playlist.(*m3u8.MasterPlaylist), nil, nil
	case m3u8.MEDIA:
		return nil, playlist.(*m3u8.MediaPlaylist), nil
	default:
		return nil, nil, fmt.Errorf("unknown playlist type")
	}
}

func encrypted(key *m3u8.Key) bool {
	return key != nil && key.Method != "" && !strings.EqualFold(key.Method, "NONE")
}

// newMediaPlaylist resolves fragment URIs against base. Live playlists keep
// the start times of fragments already known from prev, matched by sequence number.
func newMediaPlaylist(pl *m3u8.MediaPlaylist, base *url.URL, prev *mediaPlaylist) (*mediaPlaylist, error) {
	if encrypted(pl.Key) {
		return nil, ErrEncrypted
	}

	known := make(map[uint64]float64)
	var knownEnd float64
	if prev != nil {
		for _, s := range prev.segments {
			known[s.seq] = s.start
		}
		if n := len(prev.segments); n > 0 {
			knownEnd = prev.segments[n-1].end()
		}
	}

	result := &mediaPlaylist{
		target: time.Duration(pl.TargetDuration * float64(time.Second)),
		live:   !pl.Closed,
	}

	var (
		cursor  float64
		mapping = pl.Map
		started bool
	)
	// Segments has trailing nil entries up to the playlist capacity.
	for i, s := range pl.Segments {
		if s == nil {
			continue
		}
		if encrypted(s.Key) {
			return nil, ErrEncrypted
		}
		if s.Map != nil {
			mapping = s.Map
		}

		seq := pl.SeqNo + uint64(i)
		if start, ok := known[seq]; ok {
			cursor = start
		} else if !started && prev != nil {
			cursor = knownEnd
		}
		started = true

		uri, err := resolve(base, s.URI)
		if err != nil {
			return nil, err
		}

		var init string
		if mapping != nil && mapping.URI != "" {
			if init, err = resolve(base, mapping.URI); err != nil {
				return nil, err
			}
		}

		result.segments = append(result.segments, segment{
			seq:      seq,
			uri:      uri,
			init:     init,
			start:    cursor,
			duration: s.Duration,
		})
		cursor += s.Duration
	}

	if len(result.segments) == 0 && !result.live {
		return nil, ErrEmptyPlaylist
	}
	if result.target <= 0 {
		result.target = 2 * time.Second
	}
	return result, nil
}

// isMedia reports whether data starts like an MPEG-TS, fragmented MP4 or
// packed audio fragment.
func isMedia(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if data[0] == 0x47 {
		return len(data) <= 188 || data[188] == 0x47
	}
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	if len(data) >= 8 {
		switch string(data[4:8]) {
		case "ftyp", "styp", "moof", "sidx", "emsg":
			return true
		}
	}
	return false
}
