package camera

import (
	"gocv.io/x/gocv"

	"monocap/internal/capture"
)

// quitKey stops the recording from the preview window. Any other key
// is ignored.
const quitKey = 'q'

// Preview renders frames in an OpenCV window and reports the user's
// stop request. It is polled once per frame by the capture loop, never
// asynchronously.
type Preview struct {
	win *gocv.Window
}

// NewPreview opens the preview window.
func NewPreview() *Preview {
	return &Preview{win: gocv.NewWindow("monocap - press 'q' to stop")}
}

// Render shows the frame and polls the keyboard for one millisecond.
func (p *Preview) Render(f capture.Frame) bool {
	m, ok := matOf(f)
	if !ok || m.Empty() {
		return false
	}
	p.win.IMShow(m)
	return p.win.WaitKey(1) == quitKey
}

// Close destroys the window.
func (p *Preview) Close() error {
	return p.win.Close()
}
