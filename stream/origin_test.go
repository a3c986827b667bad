package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

func fragment() []byte {
	data := make([]byte, 376)
	data[0], data[188] = 0x47, 0x47
	return data
}

// origin serves three renditions of three 4s fragments. Fragments can be
// made to fail or to return garbage for a number of requests. /live/index.m3u8
// is a window of three 1s fragments that slides by one on every request.
type origin struct {
	*httptest.Server

	mu      sync.Mutex
	failing map[string]int
	corrupt map[string]int
	window  int
}

const master = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080
1080/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720
720/index.m3u8
`

func newOrigin() *origin {
	o := &origin{failing: make(map[string]int), corrupt: make(map[string]int)}
	o.Server = httptest.NewServer(http.HandlerFunc(o.serve))
	return o
}

func (o *origin) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	o.mu.Lock()
	window := o.window
	if path == "/live/index.m3u8" {
		o.window++
	}
	failing, corrupt := o.failing[path], o.corrupt[path]
	if failing > 0 {
		o.failing[path]--
	}
	if corrupt > 0 {
		o.corrupt[path]--
	}
	o.mu.Unlock()

	switch {
	case failing != 0:
		http.Error(w, "unavailable", http.StatusBadGateway)
	case path == "/master.m3u8":
		w.Write([]byte(master))
	case path == "/live/index.m3u8":
		var b strings.Builder
		fmt.Fprintf(&b, "#EXTM3U\n#EXT-X-TARGETDURATION:1\n#EXT-X-MEDIA-SEQUENCE:%d\n", window)
		for i := window; i < window+3; i++ {
			fmt.Fprintf(&b, "#EXTINF:1.0,\nseg%d.ts\n", i)
		}
		w.Write([]byte(b.String()))
	case strings.HasSuffix(path, "/index.m3u8"):
		var b strings.Builder
		b.WriteString("#EXTM3U\n#EXT-X-TARGETDURATION:4\n")
		for i := 0; i < 3; i++ {
			fmt.Fprintf(&b, "#EXTINF:4.0,\nseg%d.ts\n", i)
		}
		b.WriteString("#EXT-X-ENDLIST\n")
		w.Write([]byte(b.String()))
	case strings.HasSuffix(path, ".ts") && corrupt != 0:
		w.Write([]byte("<html>not media</html>"))
	case strings.HasSuffix(path, ".ts"):
		w.Write(fragment())
	default:
		http.NotFound(w, r)
	}
}

func (o *origin) fail(path string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failing[path] = n
}

func (o *origin) spoil(path string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.corrupt[path] = n
}

// await reads session events until one matches. It returns everything read.
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

func fault(k FaultKind) func(Event) bool {
	return func(e Event) bool { return e.Kind == Faulted && e.Fault.Kind == k }
}

func eventually(check func() bool) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
