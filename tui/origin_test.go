package tui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/mafilu-cli/mafilu/stream"
	"github.com/mafilu-cli/mafilu/stream/hls"
)

const master = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080
1080/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720
720/index.m3u8
`

// origin serves three renditions of three 4s fragments. Paths can be made
// to fail for a number of requests.
type origin struct {
	*httptest.Server

	mu      sync.Mutex
	failing map[string]int
}

func newOrigin() *origin {
	o := &origin{failing: make(map[string]int)}
	o.Server = httptest.NewServer(http.HandlerFunc(o.serve))
	return o
}

func (o *origin) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	o.mu.Lock()
	failing := o.failing[path]
	if failing > 0 {
		o.failing[path]--
	}
	o.mu.Unlock()

	switch {
	case failing != 0:
		http.Error(w, "unavailable", http.StatusBadGateway)
	case path == "/master.m3u8":
		w.Write([]byte(master))
	case strings.HasSuffix(path, "/index.m3u8"):
		var b strings.Builder
		b.WriteString("#EXTM3U\n#EXT-X-TARGETDURATION:4\n")
		for i := 0; i < 3; i++ {
			fmt.Fprintf(&b, "#EXTINF:4.0,\nseg%d.ts\n", i)
		}
		b.WriteString("#EXT-X-ENDLIST\n")
		w.Write([]byte(b.String()))
	case strings.HasSuffix(path, ".ts"):
		data := make([]byte, 376)
		data[0], data[188] = 0x47, 0x47
		w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

func (o *origin) fail(path string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failing[path] = n
}

func (o *origin) options() stream.Options {
	return stream.Options{
		HLS: hls.Config{
			HTTPClient:       o.Client(),
			InitialBandwidth: 3_500_000,
			SafetyFactor:     0.8,
			FragmentRetries:  1,
		},
		RetryInterval: 10 * time.Millisecond,
	}
}
