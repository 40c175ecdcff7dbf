package capture

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Segment is the active output container. Exactly one segment has an
// open writer at any instant; closed segments are immutable and never
// reopened.
type Segment struct {
	// Index is 1-based and increments by one per rotation, no gaps.
	Index int
	Path  string
	// Start is the monotonic reference for the rotation decision.
	Start  time.Time
	Frames int

	writer SegmentWriter
}

// Write appends one frame to the segment in receipt order.
func (s *Segment) Write(f Frame) error {
	if err := s.writer.Write(f); err != nil {
		return &WriteError{Path: s.Path, Err: err}
	}
	s.Frames++
	return nil
}

// Close finalizes the container. Calling it again is a no-op, which
// keeps shutdown idempotent across exit paths.
func (s *Segment) Close() error {
	if s.writer == nil {
		return nil
	}
	w := s.writer
	s.writer = nil
	return w.Close()
}

// SegmentInfo describes one segment for reporting and observers.
type SegmentInfo struct {
	Index    int
	Path     string
	Frames   int
	Duration time.Duration
}

// SegmentPath builds the output path for a segment by splitting the
// base name into stem and extension: ("out", "run.mp4", 2) yields
// "out/run_002.mp4". Indices start at 001.
func SegmentPath(dir, base string, index int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%03d%s", stem, index, ext))
}

// Scheduler is the pure time-threshold rotation policy. The caller
// owns the segment start timestamp and supplies the elapsed time, so
// the policy itself stays stateless and independent of frame-rate
// jitter: rotation is driven by elapsed time, not frame count.
type Scheduler struct {
	Chunk time.Duration
}

// ShouldRotate reports whether the active segment has reached the
// chunk duration. Elapsed time must come from a monotonic clock;
// wall-clock adjustments must not trigger or delay rotation.
func (s Scheduler) ShouldRotate(elapsed time.Duration) bool {
	return s.Chunk > 0 && elapsed >= s.Chunk
}
