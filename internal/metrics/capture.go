// Package metrics provides Prometheus metrics for the capture
// pipeline, with a local cache for the end-of-run summary.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "frames_written_total",
		Help:      "Total frames appended to segment containers",
	})

	segmentsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "segments_opened_total",
		Help:      "Total segment containers opened",
	})

	segmentsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "segments_closed_total",
		Help:      "Total segment containers finalized",
	})

	segmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "segment_duration_seconds",
		Help:      "Recorded duration of finalized segments",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	segmentFrames = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "segment_frames",
		Help:      "Frame count of finalized segments",
		Buckets:   prometheus.ExponentialBuckets(30, 2, 12),
	})

	readErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "frame_read_errors_total",
		Help:      "Total frame acquisition failures",
	})

	activeSegment = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "monocap",
		Subsystem: "capture",
		Name:      "active_segment_index",
		Help:      "Index of the segment currently being written, 0 when idle",
	})

	// Local cache for the run summary.
	cache   RunMetrics
	cacheMu sync.RWMutex
)

// RunMetrics holds current counter values for the active run.
type RunMetrics struct {
	Frames         int
	SegmentsOpened int
	SegmentsClosed int
}

// AddFrame records one frame appended to the active segment.
func AddFrame() {
	framesWritten.Inc()
	updateCache(func(m *RunMetrics) { m.Frames++ })
}

// SegmentOpened records a newly opened segment container.
func SegmentOpened(index int) {
	segmentsOpened.Inc()
	activeSegment.Set(float64(index))
	updateCache(func(m *RunMetrics) { m.SegmentsOpened++ })
}

// SegmentClosed records a finalized segment.
func SegmentClosed(frames int, duration time.Duration) {
	segmentsClosed.Inc()
	segmentDuration.Observe(duration.Seconds())
	segmentFrames.Observe(float64(frames))
	activeSegment.Set(0)
	updateCache(func(m *RunMetrics) { m.SegmentsClosed++ })
}

// ReadError records a failed frame acquisition.
func ReadError() {
	readErrors.Inc()
}

// GetRunMetrics returns a copy of the current run counters.
func GetRunMetrics() RunMetrics {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cache
}

// ResetRunMetrics clears the run counters. Prometheus counters are
// cumulative and stay untouched.
func ResetRunMetrics() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = RunMetrics{}
}

func updateCache(fn func(*RunMetrics)) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	fn(&cache)
}
