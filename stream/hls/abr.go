package hls

import (
	"sync"
	"time"
)

// ewmaWeight is the share of a new sample in the bandwidth estimate.
const ewmaWeight = 0.3

// minSampleBytes ignores fragments too small to measure throughput.
const minSampleBytes = 16 * 1024

// estimator keeps an exponentially weighted throughput estimate in bits per second.
type estimator struct {
	mu       sync.Mutex
	estimate float64
	samples  int
}

func newEstimator(initial int) *estimator {
	return &estimator{estimate: float64(initial)}
}

func (e *estimator) sample(bytes int, elapsed time.Duration) {
	if bytes < minSampleBytes || elapsed <= 0 {
		return
	}

	bps := float64(bytes*8) / elapsed.Seconds()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samples == 0 {
		e.estimate = bps
	} else {
		e.estimate = ewmaWeight*bps + (1-ewmaWeight)*e.estimate
	}
	e.samples++
}

func (e *estimator) bandwidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estimate
}

// chooseLevel returns the index of the highest-bitrate level that fits in
// bandwidth*safety, or the lowest-bitrate level when none fits.
func chooseLevel(levels []Level, bandwidth, safety float64) int {
	if len(levels) == 0 {
		return -1
	}

	budget := bandwidth * safety
	best, lowest := -1, 0
	for i, level := range levels {
		if level.Bitrate < levels[lowest].Bitrate {
			lowest = i
		}
		if float64(level.Bitrate) > budget {
			continue
		}
		if best == -1 || level.Bitrate > levels[best].Bitrate {
			best = i
		}
	}

	if best == -1 {
		return levels[lowest].Index
	}
	return levels[best].Index
}
