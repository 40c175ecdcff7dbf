// Package devices enumerates video capture devices on the running
// platform and resolves camera indices to device nodes.
package devices

import "fmt"

// DeviceInfo describes one video capture device.
type DeviceInfo struct {
	// DevicePath is the device node, e.g. /dev/video0.
	DevicePath string
	// DeviceName is the human-readable name reported by the driver.
	DeviceName string
	// DeviceID is a stable identifier that survives re-enumeration.
	DeviceID string
	// Index is the numeric capture index used on the command line.
	Index int
}

// Detector provides platform-specific device detection.
type Detector interface {
	// FindDevices returns all currently available capture devices.
	FindDevices() ([]DeviceInfo, error)

	// ResolveIndex verifies that a camera index refers to an existing
	// device and returns its device node.
	ResolveIndex(index int) (string, error)
}

// NewDetector creates the detector for the running platform.
func NewDetector() Detector {
	return newDetector()
}

// ErrNoSuchDevice reports a camera index with no device node behind it.
type ErrNoSuchDevice struct {
	Index int
}

func (e *ErrNoSuchDevice) Error() string {
	return fmt.Sprintf("no capture device with index %d", e.Index)
}
