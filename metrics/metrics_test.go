package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		Register(reg)

		Convey("Labelled counters show up once used", func() {
			StreamFaults.WithLabelValues("network").Inc()

			families, err := reg.Gather()
			So(err, ShouldBeNil)

			names := make(map[string]bool)
			for _, family := range families {
				names[family.GetName()] = true
			}
			So(names["mafilu_stream_faults_total"], ShouldBeTrue)
			So(names["mafilu_hls_fragments_loaded_total"], ShouldBeTrue)
		})

		Convey("They are served over HTTP", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			SessionsOpened.WithLabelValues("software").Inc()
			addr, err := Serve(ctx, "127.0.0.1:0", reg)
			So(err, ShouldBeNil)

			resp, err := http.Get("http://" + addr.String() + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			So(string(body), ShouldContainSubstring, "mafilu_stream_sessions_opened_total")
		})
	})
}
