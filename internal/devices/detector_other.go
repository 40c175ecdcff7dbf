//go:build !linux

package devices

type fallbackDetector struct{}

func newDetector() Detector {
	return fallbackDetector{}
}

// FindDevices reports no devices; enumeration is only implemented for
// V4L2. OpenCV still opens cameras by index on other platforms.
func (fallbackDetector) FindDevices() ([]DeviceInfo, error) {
	return []DeviceInfo{}, nil
}

// ResolveIndex passes the index through untouched; there is no device
// node to verify outside Linux.
func (fallbackDetector) ResolveIndex(index int) (string, error) {
	return "", nil
}
