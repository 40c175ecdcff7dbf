//go:build linux

package devices

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func fakeSysfs(t *testing.T) *linuxDetector {
	t.Helper()

	sysRoot := t.TempDir()
	devRoot := t.TempDir()

	for _, dev := range []struct {
		node  string
		name  string
		index string
	}{
		{"video0", "Integrated Camera", "0"},
		{"video2", "USB Mono Camera", "0"},
	} {
		dir := filepath.Join(sysRoot, dev.node)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create sysfs dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "name"), []byte(dev.name+"\n"), 0o644); err != nil {
			t.Fatalf("Failed to write name: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index"), []byte(dev.index+"\n"), 0o644); err != nil {
			t.Fatalf("Failed to write index: %v", err)
		}
		if err := os.WriteFile(filepath.Join(devRoot, dev.node), nil, 0o644); err != nil {
			t.Fatalf("Failed to create dev node: %v", err)
		}
	}

	return &linuxDetector{sysRoot: sysRoot, devRoot: devRoot}
}

func TestFindDevices(t *testing.T) {
	d := fakeSysfs(t)

	devices, err := d.FindDevices()
	if err != nil {
		t.Fatalf("FindDevices failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(devices))
	}

	if devices[0].Index != 0 || devices[1].Index != 2 {
		t.Errorf("Expected indices 0 and 2, got %d and %d", devices[0].Index, devices[1].Index)
	}
	if devices[0].DeviceName != "Integrated Camera" {
		t.Errorf("Expected trimmed device name, got %q", devices[0].DeviceName)
	}
	if devices[1].DevicePath != filepath.Join(d.devRoot, "video2") {
		t.Errorf("Unexpected device path %q", devices[1].DevicePath)
	}
}

func TestFindDevicesNoSysfs(t *testing.T) {
	d := &linuxDetector{sysRoot: filepath.Join(t.TempDir(), "missing"), devRoot: "/dev"}

	devices, err := d.FindDevices()
	if err != nil {
		t.Fatalf("FindDevices failed: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("Expected no devices, got %d", len(devices))
	}
}

func TestResolveIndex(t *testing.T) {
	d := fakeSysfs(t)

	path, err := d.ResolveIndex(2)
	if err != nil {
		t.Fatalf("ResolveIndex failed: %v", err)
	}
	if path != filepath.Join(d.devRoot, "video2") {
		t.Errorf("Unexpected path %q", path)
	}

	_, err = d.ResolveIndex(5)
	var noDev *ErrNoSuchDevice
	if !errors.As(err, &noDev) {
		t.Fatalf("Expected ErrNoSuchDevice, got %v", err)
	}
	if noDev.Index != 5 {
		t.Errorf("Expected index 5 in error, got %d", noDev.Index)
	}
}
