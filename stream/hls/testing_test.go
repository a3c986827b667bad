package hls

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// tsFragment looks like two MPEG-TS packets.
func tsFragment(tag byte) []byte {
	data := make([]byte, 376)
	data[0], data[188] = 0x47, 0x47
	data[1] = tag
	return data
}

// origin serves a master playlist with three renditions of three 4s fragments.
type origin struct {
	*httptest.Server

	mu       sync.Mutex
	failing  map[string]int
	bodies   map[string]string
	requests []string
}

func newOrigin() *origin {
	o := &origin{
		failing: make(map[string]int),
		bodies:  make(map[string]string),
	}

	o.bodies["/master.m3u8"] = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080
1080/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720
720/index.m3u8
`
	for _, h := range []string{"360", "720", "1080"} {
		o.bodies["/"+h+"/index.m3u8"] = media(3)
	}

	o.Server = httptest.NewServer(http.HandlerFunc(o.serve))
	return o
}

func media(n int) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:4\n#EXT-X-MEDIA-SEQUENCE:0\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "#EXTINF:4.000,\nseg%d.ts\n", i)
	}
	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}

func (o *origin) serve(w http.ResponseWriter, r *http.Request) {
	o.mu.Lock()
	o.requests = append(o.requests, r.URL.Path)
	failures := o.failing[r.URL.Path]
	if failures > 0 {
		o.failing[r.URL.Path] = failures - 1
	}
	body, ok := o.bodies[r.URL.Path]
	o.mu.Unlock()

	switch {
	case failures != 0:
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	case ok:
		w.Write([]byte(body))
	case strings.HasSuffix(r.URL.Path, ".ts"):
		w.Write(tsFragment(byte(len(r.URL.Path))))
	default:
		http.NotFound(w, r)
	}
}

// fail makes the next n requests of path fail. -1 fails forever.
func (o *origin) fail(path string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failing[path] = n
}

func (o *origin) set(path, body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies[path] = body
}

func (o *origin) requested(prefix string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var paths []string
	for _, p := range o.requests {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	return paths
}

// await reads events until one matches or the timeout passes.
func await(events <-chan Event, match func(Event) bool) (Event, []Event, bool) {
	var seen []Event
	timeout := time.After(3 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return Event{}, seen, false
			}
			seen = append(seen, event)
			if match(event) {
				return event, seen, true
			}
		case <-timeout:
			return Event{}, seen, false
		}
	}
}

func kind(k EventKind) func(Event) bool {
	return func(e Event) bool { return e.Kind == k }
}
