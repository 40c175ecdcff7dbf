//go:build linux

package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const sysVideoClass = "/sys/class/video4linux"

type linuxDetector struct {
	// sysRoot and devRoot are overridable for tests.
	sysRoot string
	devRoot string
}

func newDetector() Detector {
	return &linuxDetector{sysRoot: sysVideoClass, devRoot: "/dev"}
}

// FindDevices enumerates V4L2 nodes through sysfs. Nodes without a
// video index (metadata nodes and the like) are skipped.
func (d *linuxDetector) FindDevices() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(d.sysRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	var devices []DeviceInfo
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "video") {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(name, "video"))
		if err != nil {
			continue
		}

		subIndex := readSysfsInt(filepath.Join(d.sysRoot, name, "index"))

		devices = append(devices, DeviceInfo{
			DevicePath: filepath.Join(d.devRoot, name),
			DeviceName: readSysfsString(filepath.Join(d.sysRoot, name, "name")),
			DeviceID:   d.stableID(name, subIndex),
			Index:      index,
		})
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Index < devices[j].Index })
	return devices, nil
}

// ResolveIndex maps a camera index to its /dev node and verifies the
// node exists before anything tries to open it.
func (d *linuxDetector) ResolveIndex(index int) (string, error) {
	path := filepath.Join(d.devRoot, fmt.Sprintf("video%d", index))
	if _, err := os.Stat(path); err != nil {
		return "", &ErrNoSuchDevice{Index: index}
	}
	return path, nil
}

// stableID looks for a persistent symlink in /dev/v4l/by-id pointing
// at the device node. Falls back to the node name when none exists.
func (d *linuxDetector) stableID(deviceName string, subIndex int) string {
	byIDDir := filepath.Join(d.devRoot, "v4l", "by-id")
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		return deviceName
	}

	expectedSuffix := fmt.Sprintf("-video-index%d", subIndex)
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		target, err := os.Readlink(filepath.Join(byIDDir, entry.Name()))
		if err != nil {
			continue
		}
		if filepath.Base(target) == deviceName && strings.HasSuffix(entry.Name(), expectedSuffix) {
			return entry.Name()
		}
	}
	return deviceName
}

// readSysfsInt reads an integer value from a sysfs file.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}

// readSysfsString reads a trimmed string value from a sysfs file.
func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
