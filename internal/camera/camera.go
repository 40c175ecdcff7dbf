// Package camera is the OpenCV capture backend. It opens live devices
// (through V4L2 on Linux) and pre-recorded files, negotiates capture
// parameters against the driver and exposes the result behind the
// backend interfaces of internal/capture.
package camera

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"gocv.io/x/gocv"

	"monocap/internal/capture"
	"monocap/internal/logging"
)

// segmentCodec is the FOURCC used for both the capture request and
// every segment container. Motion JPEG keeps each frame independent,
// so an interrupted file stays readable.
const segmentCodec = "MJPG"

// Opener opens OpenCV capture sources. The zero value is ready to use.
type Opener struct{}

// Open opens the selected source and negotiates cfg against it.
// Every parameter request is advisory; drivers clamp or ignore values
// silently, so the effective configuration is read back afterwards.
// Tuning controls that were not honored are logged, not failed.
func (Opener) Open(sel capture.Selector, cfg capture.Config) (capture.Backend, capture.Effective, error) {
	logger := logging.GetLogger("camera")

	vc, err := openSource(sel)
	if err != nil {
		return nil, capture.Effective{}, fmt.Errorf("%w: %s: %v", capture.ErrSourceUnavailable, sel.String(), err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, capture.Effective{}, fmt.Errorf("%w: %s", capture.ErrSourceUnavailable, sel.String())
	}

	eff := negotiate(vc, cfg, logger)
	c := &Capture{
		vc:     vc,
		mat:    gocv.NewMat(),
		live:   sel.Live,
		logger: logger,
	}
	return c, eff, nil
}

func openSource(sel capture.Selector) (*gocv.VideoCapture, error) {
	if !sel.Live {
		return gocv.OpenVideoCapture(sel.Path)
	}
	api := gocv.VideoCaptureAny
	if runtime.GOOS == "linux" {
		api = gocv.VideoCaptureV4L2
	}
	return gocv.OpenVideoCaptureWithAPI(sel.Camera, api)
}

func negotiate(vc *gocv.VideoCapture, cfg capture.Config, logger *slog.Logger) capture.Effective {
	vc.Set(gocv.VideoCaptureFOURCC, vc.ToCodec(segmentCodec))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	requestTuning(vc, gocv.VideoCaptureGamma, "gamma", cfg.Gamma, logger)
	requestTuning(vc, gocv.VideoCaptureGain, "gain", cfg.Gain, logger)
	requestTuning(vc, gocv.VideoCaptureBrightness, "brightness", cfg.Brightness, logger)
	requestTuning(vc, gocv.VideoCaptureContrast, "contrast", cfg.Contrast, logger)

	if cfg.BufferSize > 0 {
		vc.Set(gocv.VideoCaptureBufferSize, float64(cfg.BufferSize))
	}

	// Mandatory read-back. Request success cannot be assumed and the
	// segment containers must be opened with what the device granted.
	eff := capture.Effective{
		Width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    vc.Get(gocv.VideoCaptureFPS),
	}
	if eff.Width != cfg.Width || eff.Height != cfg.Height {
		logger.Info("Device adjusted frame size",
			"requested_width", cfg.Width, "requested_height", cfg.Height,
			"effective_width", eff.Width, "effective_height", eff.Height)
	}
	if int(eff.FPS) != cfg.FPS {
		logger.Info("Device adjusted frame rate", "requested", cfg.FPS, "effective", eff.FPS)
	}
	return eff
}

// requestTuning sets one tuning control and reads it back. Devices
// commonly ignore unsupported controls; that is a deviation to report,
// not an error.
func requestTuning(vc *gocv.VideoCapture, prop gocv.VideoCaptureProperties, name string, want float64, logger *slog.Logger) {
	vc.Set(prop, want)
	if got := vc.Get(prop); got != want {
		logger.Info("Tuning control not honored", "control", name, "requested", want, "effective", got)
	}
}

// Capture is an open OpenCV source. It recycles a single scratch Mat
// across reads; each returned frame borrows it until the next read.
type Capture struct {
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	live   bool
	logger *slog.Logger
}

// Next blocks until the next frame is decoded. File exhaustion is
// capture.ErrEndOfStream; a failed read from a live device is an
// error, since a live device should not end. No retry either way.
func (c *Capture) Next() (capture.Frame, error) {
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		if !c.live {
			return nil, capture.ErrEndOfStream
		}
		return nil, errors.New("failed to grab frame from device")
	}
	return frame{m: &c.mat}, nil
}

// OpenSegment opens one MJPG container with the effective parameters.
func (c *Capture) OpenSegment(path string, eff capture.Effective) (capture.SegmentWriter, error) {
	vw, err := gocv.VideoWriterFile(path, segmentCodec, eff.FPS, eff.Width, eff.Height, true)
	if err != nil {
		return nil, err
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("video writer did not open %s", path)
	}
	return &Writer{path: path, vw: vw}, nil
}

// Close releases the device or file handle.
func (c *Capture) Close() error {
	merr := c.mat.Close()
	cerr := c.vc.Close()
	if cerr != nil {
		return cerr
	}
	return merr
}

// frame borrows the capture's scratch Mat until the next read.
type frame struct {
	m *gocv.Mat
}

func (f frame) Size() (int, int) { return f.m.Cols(), f.m.Rows() }

// Close is a no-op; the owning Capture recycles the buffer.
func (f frame) Close() {}

// matOf recovers the underlying Mat from a frame produced by this
// backend. Frames from other backends are rejected rather than
// silently written as garbage.
func matOf(f capture.Frame) (gocv.Mat, bool) {
	fr, ok := f.(frame)
	if !ok {
		return gocv.Mat{}, false
	}
	return *fr.m, true
}
