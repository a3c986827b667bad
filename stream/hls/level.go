package hls

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
)

// Level is one rendition of the stream. Index is its position in the master
// playlist and stays valid for the client's lifetime.
type Level struct {
	Index   int
	Width   int
	Height  int
	Bitrate int
	URI     string
}

// parseResolution reads a RESOLUTION attribute such as "1280x720".
func parseResolution(s string) (width, height int) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0
	}
	width, _ = strconv.Atoi(w)
	height, _ = strconv.Atoi(h)
	return width, height
}

// levelsOf turns master playlist variants into levels. I-frame only variants are skipped.
func levelsOf(master *m3u8.MasterPlaylist, base *url.URL) ([]Level, error) {
	var levels []Level
	for _, variant := range master.Variants {
		if variant == nil || variant.Iframe || variant.URI == "" {
			continue
		}

		uri, err := resolve(base, variant.URI)
		if err != nil {
			return nil, err
		}

		width, height := parseResolution(variant.Resolution)
		levels = append(levels, Level{
			Index:   len(levels),
			Width:   width,
			Height:  height,
			Bitrate: int(variant.Bandwidth),
			URI:     uri,
		})
	}
	return levels, nil
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
