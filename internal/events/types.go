// Package events carries in-process notifications about the capture
// pipeline: segment lifecycle and run completion.
package events

import "time"

// Event type constants for kelindar/event.
const (
	TypeSegmentOpened uint32 = iota + 1
	TypeSegmentClosed
	TypeCaptureFinished
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SegmentOpenedEvent fires when a new segment container is opened.
type SegmentOpenedEvent struct {
	Index int
	Path  string
}

// Type returns the event type identifier for SegmentOpenedEvent.
func (e SegmentOpenedEvent) Type() uint32 { return TypeSegmentOpened }

// SegmentClosedEvent fires when a segment is finalized, on rotation or
// shutdown.
type SegmentClosedEvent struct {
	Index    int
	Path     string
	Frames   int
	Duration time.Duration
}

// Type returns the event type identifier for SegmentClosedEvent.
func (e SegmentClosedEvent) Type() uint32 { return TypeSegmentClosed }

// CaptureFinishedEvent fires once per run after the last segment is
// finalized.
type CaptureFinishedEvent struct {
	Reason   string
	Segments int
	Frames   int
}

// Type returns the event type identifier for CaptureFinishedEvent.
func (e CaptureFinishedEvent) Type() uint32 { return TypeCaptureFinished }
