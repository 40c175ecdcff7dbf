package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"ERROR", slog.LevelError, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := parseLevel(tt.in)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		} else if got != nil {
			t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
		}
	}
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	a := GetLogger("capture")
	b := GetLogger("capture")
	if a != b {
		t.Error("Expected the same logger instance per module")
	}
}

func TestInitializeAppliesModuleLevels(t *testing.T) {
	// Create before Initialize so the upgrade path is exercised too.
	GetLogger("camera")

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"camera": "debug",
		},
	})

	mutex.RLock()
	defer mutex.RUnlock()
	if got := moduleLevelVars["camera"].Level(); got != slog.LevelDebug {
		t.Errorf("Expected camera module at debug, got %v", got)
	}
	if got := globalLevelVar.Level(); got != slog.LevelInfo {
		t.Errorf("Expected global level info, got %v", got)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)

	logger := slog.New(h)
	logger.Info("segment opened", "index", 1)

	if !strings.Contains(a.String(), "segment opened") {
		t.Error("Expected record in text handler output")
	}
	if !strings.Contains(b.String(), "segment opened") {
		t.Error("Expected record in JSON handler output")
	}
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "dropped", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected info record filtered out, got %q", buf.String())
	}
}

func TestAddAttrToFields(t *testing.T) {
	fields := make(map[string]string)

	addAttrToFields(fields, slog.String("path", "outputs/output_001.mp4"), nil)
	addAttrToFields(fields, slog.Int("frames", 1800), nil)
	addAttrToFields(fields, slog.Duration("duration", time.Minute), nil)
	addAttrToFields(fields, slog.Group("segment", slog.Int("index", 2)), nil)

	if fields["PATH"] != "outputs/output_001.mp4" {
		t.Errorf("Expected PATH field, got %v", fields)
	}
	if fields["FRAMES"] != "1800" {
		t.Errorf("Expected FRAMES=1800, got %q", fields["FRAMES"])
	}
	if fields["DURATION"] != "1m0s" {
		t.Errorf("Expected DURATION=1m0s, got %q", fields["DURATION"])
	}
	if fields["SEGMENT_INDEX"] != "2" {
		t.Errorf("Expected SEGMENT_INDEX=2, got %v", fields)
	}
}
