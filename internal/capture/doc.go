// Package capture implements the frame acquisition and segmentation
// pipeline: it pulls frames from a negotiated source, appends them to
// the active output segment, rotates segments on a time threshold and
// shuts the run down in order on every exit path.
//
// The package is backend-agnostic. The actual device access (OpenCV,
// a fake in tests) is injected through the Opener and Backend
// interfaces, so the loop, the scheduler and the segment bookkeeping
// can be exercised without hardware.
//
// Architecture:
//
//	Opener ──negotiate──▶ Backend + Effective
//	                         │
//	            Next() ──▶ Loop ──▶ SegmentWriter (always)
//	                         │  └──▶ PreviewSink (optional)
//	                         └── Scheduler decides rotation per frame
//
// The loop is strictly single-threaded: one frame is read, written,
// previewed and the rotation decision taken before the next read.
package capture
