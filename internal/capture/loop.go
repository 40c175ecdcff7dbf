package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// StopReason states why a capture run ended.
type StopReason int

const (
	// StopEndOfStream means a file source was exhausted.
	StopEndOfStream StopReason = iota
	// StopReadFailure means frame acquisition failed mid-stream.
	StopReadFailure
	// StopCanceled means the user requested the stop, either through
	// the preview window or by canceling the context.
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopEndOfStream:
		return "end of stream"
	case StopReadFailure:
		return "read failure"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("stop reason %d", int(r))
	}
}

// Result is the outcome of one capture run. Err carries the read
// failure detail when Reason is StopReadFailure and is nil otherwise;
// fatal errors (usage, source open, write) are returned by Run itself.
type Result struct {
	Reason   StopReason
	Segments []SegmentInfo
	Err      error
}

// Loop orchestrates one capture run: negotiate, stream, rotate,
// terminate. It is single-threaded; the blocking frame read is the
// only suspension point and preview cancellation is polled once per
// frame after the write.
type Loop struct {
	opener   Opener
	logger   *slog.Logger
	preview  PreviewSink
	observer Observer
	now      func() time.Time
}

// NewLoop creates a capture loop over the given backend opener.
func NewLoop(opener Opener, logger *slog.Logger) *Loop {
	return &Loop{
		opener: opener,
		logger: logger,
		now:    time.Now,
	}
}

// SetPreview attaches an optional live preview sink. The loop owns it
// from here on and closes it when the run ends.
func (l *Loop) SetPreview(p PreviewSink) { l.preview = p }

// SetObserver attaches an optional lifecycle observer.
func (l *Loop) SetObserver(o Observer) { l.observer = o }

// Run executes one capture run until the source ends, acquisition
// fails, the preview requests a stop or ctx is canceled. The device
// handle, the preview and the active segment are released on every
// exit path; the active segment is closed exactly once.
func (l *Loop) Run(ctx context.Context, cfg Config) (Result, error) {
	sel, err := cfg.Source()
	if err != nil {
		return Result{}, err
	}

	backend, eff, err := l.opener.Open(sel, cfg)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			l.logger.Warn("Failed to release capture source", "source", sel.String(), "error", cerr)
		}
		if l.preview != nil {
			if cerr := l.preview.Close(); cerr != nil {
				l.logger.Warn("Failed to release preview", "error", cerr)
			}
		}
	}()
	l.logger.Info("Capture configured", "source", sel.String(), "effective", eff.String())

	return l.stream(ctx, sel, cfg, eff, backend)
}

// stream names its results so the deferred segment close below can
// record the final segment into the returned Result.
func (l *Loop) stream(ctx context.Context, sel Selector, cfg Config, eff Effective, backend Backend) (res Result, err error) {
	sched := Scheduler{Chunk: cfg.Chunk}
	seg, err := l.openSegment(backend, cfg, eff, 1)
	if err != nil {
		return res, err
	}

	// Exactly-once close of the active segment for every path out of
	// the loop, including panics in collaborators.
	closeActive := func() error {
		if seg == nil {
			return nil
		}
		info := SegmentInfo{
			Index:    seg.Index,
			Path:     seg.Path,
			Frames:   seg.Frames,
			Duration: l.now().Sub(seg.Start),
		}
		cerr := seg.Close()
		seg = nil
		if cerr != nil {
			return fmt.Errorf("closing segment %s: %w", info.Path, cerr)
		}
		res.Segments = append(res.Segments, info)
		l.logger.Info("Segment finalized", "index", info.Index, "path", info.Path,
			"frames", info.Frames, "duration", info.Duration)
		if l.observer != nil {
			l.observer.SegmentClosed(info)
		}
		return nil
	}
	defer func() {
		if cerr := closeActive(); cerr != nil {
			l.logger.Error("Failed to finalize segment on shutdown", "error", cerr)
		}
	}()

	for {
		if ctx.Err() != nil {
			l.logger.Info("Stop requested, shutting down")
			res.Reason = StopCanceled
			return res, nil
		}

		frame, rerr := backend.Next()
		if rerr != nil {
			if !sel.Live && errors.Is(rerr, ErrEndOfStream) {
				res.Reason = StopEndOfStream
				return res, nil
			}
			// A live device should not end; surface it to the operator.
			l.logger.Error("Frame acquisition failed", "source", sel.String(), "error", rerr)
			res.Reason = StopReadFailure
			res.Err = rerr
			return res, nil
		}

		if werr := seg.Write(frame); werr != nil {
			frame.Close()
			// Best-effort close first so partial output stays playable.
			if cerr := closeActive(); cerr != nil {
				l.logger.Error("Failed to finalize segment after write failure", "error", cerr)
			}
			return res, werr
		}
		if l.observer != nil {
			l.observer.FrameWritten(SegmentInfo{Index: seg.Index, Path: seg.Path, Frames: seg.Frames})
		}

		stop := false
		if l.preview != nil {
			stop = l.preview.Render(frame)
		}
		frame.Close()
		if stop {
			l.logger.Info("Stop requested from preview")
			res.Reason = StopCanceled
			return res, nil
		}

		// The frame that crossed the threshold is already durably part
		// of the closing segment; rotation never drops it.
		if sched.ShouldRotate(l.now().Sub(seg.Start)) {
			next := seg.Index + 1
			if cerr := closeActive(); cerr != nil {
				return res, cerr
			}
			seg, err = l.openSegment(backend, cfg, eff, next)
			if err != nil {
				return res, err
			}
		}
	}
}

func (l *Loop) openSegment(backend Backend, cfg Config, eff Effective, index int) (*Segment, error) {
	path := SegmentPath(cfg.OutputDir, cfg.BaseName, index)
	w, err := backend.OpenSegment(path, eff)
	if err != nil {
		return nil, fmt.Errorf("opening segment %d at %s: %w", index, path, err)
	}
	l.logger.Info("Segment opened", "index", index, "path", path)
	seg := &Segment{Index: index, Path: path, Start: l.now(), writer: w}
	if l.observer != nil {
		l.observer.SegmentOpened(SegmentInfo{Index: index, Path: path})
	}
	return seg, nil
}
