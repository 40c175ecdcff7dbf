package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage indicates an ambiguous or missing input selection.
	// It is reported before any device is touched.
	ErrUsage = errors.New("exactly one of camera index or video path must be set")

	// ErrSourceUnavailable indicates the device or file could not be
	// opened at all.
	ErrSourceUnavailable = errors.New("capture source unavailable")

	// ErrEndOfStream is returned by Source.Next when a file source is
	// exhausted. It is expected and terminal for file sources; a live
	// device should never end, so the loop treats it as a read failure
	// there.
	ErrEndOfStream = errors.New("end of stream")
)

// WriteError wraps a failed segment write. A half-written container is
// worse than a short one, so the loop closes whatever was written and
// propagates this as terminal.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing segment %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Frame is one captured image. Ownership passes from the source to the
// loop to the writer for the duration of a single write; a frame is
// never retained after Close. Close releases per-frame resources; a
// backend may recycle the underlying buffer on the next read.
type Frame interface {
	Size() (width, height int)
	Close()
}

// Source yields the next captured frame. Next blocks until a frame is
// available, the source is exhausted (ErrEndOfStream) or an I/O error
// occurs. A single failed read is surfaced immediately; there is no
// internal retry.
type Source interface {
	Next() (Frame, error)
}

// SegmentWriter owns one open output container. Write appends one
// frame in receipt order. Close flushes and finalizes the container so
// a prematurely terminated run still yields a playable file; it is a
// no-op after the first call.
type SegmentWriter interface {
	Write(Frame) error
	Close() error
}

// Backend is the capture capability behind the loop: it holds the
// device or file handle, produces frames and opens segment containers.
// Close releases the underlying handle.
type Backend interface {
	Source
	OpenSegment(path string, eff Effective) (SegmentWriter, error)
	Close() error
}

// Opener negotiates capture parameters against a source and yields a
// ready Backend together with the configuration the device actually
// honored. On failure nothing is left open.
type Opener interface {
	Open(sel Selector, cfg Config) (Backend, Effective, error)
}

// PreviewSink renders the most recent frame. Render reports true when
// the user requested a stop through the preview surface; any other
// input is ignored.
type PreviewSink interface {
	Render(Frame) bool
	Close() error
}

// Observer receives pipeline lifecycle notifications. Implementations
// run on the capture goroutine and must return promptly relative to
// the frame interval.
type Observer interface {
	SegmentOpened(SegmentInfo)
	SegmentClosed(SegmentInfo)
	FrameWritten(SegmentInfo)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (os Observers) SegmentOpened(info SegmentInfo) {
	for _, o := range os {
		o.SegmentOpened(info)
	}
}

func (os Observers) SegmentClosed(info SegmentInfo) {
	for _, o := range os {
		o.SegmentClosed(info)
	}
}

func (os Observers) FrameWritten(info SegmentInfo) {
	for _, o := range os {
		o.FrameWritten(info)
	}
}
