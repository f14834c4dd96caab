// Package device captures UI dumps from Android devices via ADB.
package device

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Location of the dump written by the uiautomator shell tool.
const deviceDumpPath = "/sdcard/window_dump.xml"

// AndroidDevice manages an Android device connection via ADB.
type AndroidDevice struct {
	serial  string
	adbPath string
}

// DeviceInfo contains basic device information.
type DeviceInfo struct {
	Serial     string
	Model      string
	SDK        string
	Brand      string
	IsEmulator bool
}

// New creates an AndroidDevice for the given serial.
// If serial is empty, it auto-detects the connected device.
func New(serial string) (*AndroidDevice, error) {
	adbPath, err := findADB()
	if err != nil {
		return nil, err
	}

	if serial == "" {
		serial, err = detectDeviceSerial(adbPath)
		if err != nil {
			return nil, fmt.Errorf("no device specified and auto-detect failed: %w", err)
		}
	}

	d := &AndroidDevice{
		serial:  serial,
		adbPath: adbPath,
	}

	if err := d.waitForDevice(5 * time.Second); err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}

	return d, nil
}

// detectDeviceSerial finds the first connected device serial.
func detectDeviceSerial(adbPath string) (string, error) {
	cmd := exec.Command(adbPath, "devices")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	serial := firstDeviceSerial(string(out))
	if serial == "" {
		return "", fmt.Errorf("no connected devices found")
	}
	return serial, nil
}

// firstDeviceSerial parses `adb devices` output and returns the first
// serial in the "device" state.
func firstDeviceSerial(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[1] == "device" {
			return parts[0]
		}
	}
	return ""
}

// Serial returns the device serial number.
func (d *AndroidDevice) Serial() string {
	return d.serial
}

// Shell executes a shell command on the device.
func (d *AndroidDevice) Shell(cmd string) (string, error) {
	return d.adb("shell", cmd)
}

// CaptureDump runs the uiautomator dump tool on the device and returns
// the dump XML. The on-device file is removed afterwards.
func (d *AndroidDevice) CaptureDump() (string, error) {
	out, err := d.Shell("uiautomator dump " + deviceDumpPath)
	if err != nil {
		return "", fmt.Errorf("uiautomator dump failed: %w", err)
	}
	if strings.Contains(out, "ERROR") {
		return "", fmt.Errorf("uiautomator dump failed: %s", strings.TrimSpace(out))
	}

	xml, err := d.Shell("cat " + deviceDumpPath)
	if err != nil {
		return "", fmt.Errorf("reading dump: %w", err)
	}
	// Best effort; a stale dump file is harmless.
	_, _ = d.Shell("rm " + deviceDumpPath)

	if !strings.Contains(xml, "<hierarchy") {
		return "", fmt.Errorf("unexpected dump output: %s", truncateForError(xml))
	}
	return xml, nil
}

// ScreenSize returns the device screen dimensions in pixels.
func (d *AndroidDevice) ScreenSize() (width, height int, err error) {
	out, err := d.Shell("wm size")
	if err != nil {
		return 0, 0, err
	}
	width, height, ok := parseScreenSize(out)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected wm size output: %s", strings.TrimSpace(out))
	}
	return width, height, nil
}

// parseScreenSize extracts dimensions from `wm size` output, preferring
// the override size when present.
func parseScreenSize(out string) (width, height int, ok bool) {
	for _, prefix := range []string{"Override size:", "Physical size:"} {
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			dims := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			var w, h int
			if _, err := fmt.Sscanf(dims, "%dx%d", &w, &h); err == nil && w > 0 && h > 0 {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}

// Info returns device information.
func (d *AndroidDevice) Info() (DeviceInfo, error) {
	info := DeviceInfo{Serial: d.serial}

	if model, err := d.Shell("getprop ro.product.model"); err == nil {
		info.Model = strings.TrimSpace(model)
	}
	if sdk, err := d.Shell("getprop ro.build.version.sdk"); err == nil {
		info.SDK = strings.TrimSpace(sdk)
	}
	if brand, err := d.Shell("getprop ro.product.brand"); err == nil {
		info.Brand = strings.TrimSpace(brand)
	}

	chars, _ := d.Shell("getprop ro.kernel.qemu")
	info.IsEmulator = strings.TrimSpace(chars) == "1"

	return info, nil
}

// adb executes an ADB command.
func (d *AndroidDevice) adb(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.serial != "" {
		cmdArgs = append(cmdArgs, "-s", d.serial)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(d.adbPath, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = stdout.String()
		}
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, errMsg)
	}

	return stdout.String(), nil
}

// waitForDevice waits for the device to be available.
func (d *AndroidDevice) waitForDevice(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.isConnected() {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for device %s", d.serial)
}

// isConnected checks if the device is connected.
func (d *AndroidDevice) isConnected() bool {
	out, err := d.adb("get-state")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "device"
}

func truncateForError(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

// findADB locates the ADB binary.
func findADB() (string, error) {
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("adb not found in PATH; ensure Android SDK is installed")
}
