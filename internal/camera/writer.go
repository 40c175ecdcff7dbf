package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"monocap/internal/capture"
)

// Writer appends frames to one open segment container. Frames are
// written in receipt order; Close finalizes the container and is a
// no-op after the first call.
type Writer struct {
	path string
	vw   *gocv.VideoWriter
}

func (w *Writer) Write(f capture.Frame) error {
	if w.vw == nil {
		return fmt.Errorf("segment %s is already closed", w.path)
	}
	m, ok := matOf(f)
	if !ok {
		return fmt.Errorf("frame does not belong to the OpenCV backend")
	}
	return w.vw.Write(m)
}

func (w *Writer) Close() error {
	if w.vw == nil {
		return nil
	}
	vw := w.vw
	w.vw = nil
	return vw.Close()
}
