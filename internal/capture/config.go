package capture

import (
	"fmt"
	"time"
)

// Selector identifies the capture input, either a live camera index or
// a pre-recorded file.
type Selector struct {
	// Camera is the device index; meaningful when Live is true.
	Camera int
	// Path is the pre-recorded source; meaningful when Live is false.
	Path string
	// Live distinguishes a camera from a file source.
	Live bool
}

func (s Selector) String() string {
	if s.Live {
		return fmt.Sprintf("camera %d", s.Camera)
	}
	return s.Path
}

// Config is the requested capture configuration. It is constructed
// once from the caller's intent and read-only afterwards. Every value
// requested from the device is advisory; see Effective.
type Config struct {
	// Camera is the live device index, -1 when unset.
	Camera int
	// Video is the pre-recorded input path, empty when unset.
	Video string

	Width  int
	Height int
	FPS    int

	// Tuning controls. Devices commonly ignore unsupported controls,
	// which is a logged deviation, never an error.
	Gamma      float64
	Gain       float64
	Brightness float64
	Contrast   float64

	// BufferSize is the requested input buffer depth.
	BufferSize int

	// Chunk is the duration after which the active segment rotates.
	// Zero disables rotation and yields a single segment.
	Chunk time.Duration

	// OutputDir must exist; creating it is the caller's job.
	OutputDir string
	// BaseName carries the extension used for every segment file.
	BaseName string
}

// Source validates the mutually exclusive input selection. It fails
// with ErrUsage before any device is touched when both or neither of
// camera index and video path are set.
func (c Config) Source() (Selector, error) {
	live := c.Camera >= 0
	file := c.Video != ""
	switch {
	case live && file:
		return Selector{}, fmt.Errorf("%w: got camera %d and video %q", ErrUsage, c.Camera, c.Video)
	case !live && !file:
		return Selector{}, ErrUsage
	case live:
		return Selector{Camera: c.Camera, Live: true}, nil
	default:
		return Selector{Path: c.Video}, nil
	}
}

// Effective is the capture configuration the device actually honored,
// read back after negotiation. It is fixed before the first frame is
// written and drives every segment container's parameters; using the
// requested values instead would corrupt playback when the device
// clamped them.
type Effective struct {
	Width  int
	Height int
	FPS    float64
}

func (e Effective) String() string {
	return fmt.Sprintf("%dx%d @ %.4g fps", e.Width, e.Height, e.FPS)
}
