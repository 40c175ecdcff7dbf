package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRunMetricsCache(t *testing.T) {
	ResetRunMetrics()

	SegmentOpened(1)
	for i := 0; i < 5; i++ {
		AddFrame()
	}
	SegmentClosed(5, 10*time.Second)

	m := GetRunMetrics()
	if m.Frames != 5 {
		t.Errorf("Frames = %d, want 5", m.Frames)
	}
	if m.SegmentsOpened != 1 {
		t.Errorf("SegmentsOpened = %d, want 1", m.SegmentsOpened)
	}
	if m.SegmentsClosed != 1 {
		t.Errorf("SegmentsClosed = %d, want 1", m.SegmentsClosed)
	}

	// Returned copy must be independent of the cache.
	m.Frames = 999
	if got := GetRunMetrics().Frames; got != 5 {
		t.Errorf("cache was modified, Frames = %d, want 5", got)
	}

	ResetRunMetrics()
	if got := GetRunMetrics(); got != (RunMetrics{}) {
		t.Errorf("expected zeroed counters after reset, got %+v", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	AddFrame()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("GET /metrics returned %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "monocap_capture_frames_written_total") {
		t.Error("expected frames_written_total in metrics output")
	}
}
