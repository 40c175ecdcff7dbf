package capture

import (
	"testing"
	"time"
)

func TestSegmentPath(t *testing.T) {
	tests := []struct {
		dir   string
		base  string
		index int
		want  string
	}{
		{"outputs", "output.mp4", 1, "outputs/output_001.mp4"},
		{"outputs", "output.mp4", 12, "outputs/output_012.mp4"},
		{"outputs", "run.avi", 123, "outputs/run_123.avi"},
		{"outputs", "run.avi", 1000, "outputs/run_1000.avi"},
		{"", "clip.mkv", 7, "clip_007.mkv"},
		{"out", "noext", 2, "out/noext_002"},
	}

	for _, tt := range tests {
		if got := SegmentPath(tt.dir, tt.base, tt.index); got != tt.want {
			t.Errorf("SegmentPath(%q, %q, %d) = %q, want %q", tt.dir, tt.base, tt.index, got, tt.want)
		}
	}
}

func TestSchedulerShouldRotate(t *testing.T) {
	tests := []struct {
		name    string
		chunk   time.Duration
		elapsed time.Duration
		want    bool
	}{
		{"below threshold", time.Minute, 59 * time.Second, false},
		{"exactly at threshold", time.Minute, time.Minute, true},
		{"past threshold", time.Minute, 61 * time.Second, true},
		{"zero chunk never rotates", 0, 24 * time.Hour, false},
		{"zero elapsed", time.Minute, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scheduler{Chunk: tt.chunk}
			if got := s.ShouldRotate(tt.elapsed); got != tt.want {
				t.Errorf("ShouldRotate(%v) with chunk %v = %v, want %v", tt.elapsed, tt.chunk, got, tt.want)
			}
		})
	}
}

func TestSegmentCloseIsIdempotent(t *testing.T) {
	w := &fakeWriter{path: "outputs/output_001.mp4"}
	seg := &Segment{Index: 1, Path: w.path, writer: w}

	for i := 0; i < 3; i++ {
		if err := seg.Close(); err != nil {
			t.Fatalf("Close call %d failed: %v", i+1, err)
		}
	}
	if w.closes != 1 {
		t.Errorf("Underlying writer closed %d times, expected once", w.closes)
	}
}

func TestSegmentWriteCountsFrames(t *testing.T) {
	w := &fakeWriter{path: "outputs/output_001.mp4"}
	seg := &Segment{Index: 1, Path: w.path, writer: w}

	for i := 1; i <= 5; i++ {
		if err := seg.Write(&fakeFrame{id: i}); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	if seg.Frames != 5 {
		t.Errorf("Expected 5 frames counted, got %d", seg.Frames)
	}
	if len(w.frameIDs) != 5 {
		t.Errorf("Expected 5 frames written, got %d", len(w.frameIDs))
	}
}
