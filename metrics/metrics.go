// Package metrics holds the prometheus collectors of the player.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mafilu"

var (
	SessionsOpened = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_sessions_opened_total",
		Help:      "Stream sessions opened by path (native or software).",
	}, []string{"path"})

	StreamFaults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_faults_total",
		Help:      "Stream faults by kind (network, media, fatal).",
	}, []string{"kind"})

	StreamRecoveries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_recoveries_total",
		Help:      "Faults followed by a successfully loaded fragment.",
	})

	FragmentsLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hls_fragments_loaded_total",
		Help:      "Fragments written to the media engine.",
	})

	LevelSwitches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hls_level_switches_total",
		Help:      "Rendition switches, automatic or manual.",
	})

	EstimatedBandwidth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hls_estimated_bandwidth_bits",
		Help:      "Current throughput estimate in bits per second.",
	})

	PlaybackTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playback_transitions_total",
		Help:      "Playback state machine transitions by target state.",
	}, []string{"state"})

	ResumeWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resume_writes_total",
		Help:      "Resume store writes by trigger (periodic, pause, teardown) and result (ok, skipped, error).",
	}, []string{"trigger", "result"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		SessionsOpened,
		StreamFaults,
		StreamRecoveries,
		FragmentsLoaded,
		LevelSwitches,
		EstimatedBandwidth,
		PlaybackTransitions,
		ResumeWrites,
	)
}
