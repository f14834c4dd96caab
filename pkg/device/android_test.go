package device

import (
	"strings"
	"testing"
)

func TestFirstDeviceSerial(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{
			name: "single device",
			out:  "List of devices attached\nemulator-5554\tdevice\n",
			want: "emulator-5554",
		},
		{
			name: "skips offline device",
			out:  "List of devices attached\nFA84C1A00753\toffline\nemulator-5556\tdevice\n",
			want: "emulator-5556",
		},
		{
			name: "skips unauthorized device",
			out:  "List of devices attached\nFA84C1A00753\tunauthorized\n",
			want: "",
		},
		{
			name: "no devices",
			out:  "List of devices attached\n\n",
			want: "",
		},
		{
			name: "empty output",
			out:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstDeviceSerial(tt.out); got != tt.want {
				t.Errorf("firstDeviceSerial() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseScreenSize(t *testing.T) {
	tests := []struct {
		name       string
		out        string
		wantW      int
		wantH      int
		wantParsed bool
	}{
		{
			name:       "physical size",
			out:        "Physical size: 1080x1920\n",
			wantW:      1080,
			wantH:      1920,
			wantParsed: true,
		},
		{
			name:       "override size preferred",
			out:        "Physical size: 1080x1920\nOverride size: 720x1280\n",
			wantW:      720,
			wantH:      1280,
			wantParsed: true,
		},
		{
			name:       "garbage",
			out:        "error: no devices found\n",
			wantParsed: false,
		},
		{
			name:       "empty",
			out:        "",
			wantParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := parseScreenSize(tt.out)
			if ok != tt.wantParsed {
				t.Fatalf("parseScreenSize() ok = %v, want %v", ok, tt.wantParsed)
			}
			if ok && (w != tt.wantW || h != tt.wantH) {
				t.Errorf("parseScreenSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTruncateForError(t *testing.T) {
	short := truncateForError("  hello  ")
	if short != "hello" {
		t.Errorf("truncateForError short = %q", short)
	}

	long := truncateForError(strings.Repeat("x", 300))
	if len(long) != 123 {
		t.Errorf("truncateForError long len = %d, want 123", len(long))
	}
	if !strings.HasSuffix(long, "...") {
		t.Errorf("truncateForError long = %q, want ... suffix", long)
	}
}

// Real-device tests require a connected device; they are skipped when
// adb cannot find one.
func TestAndroidDevice_Real(t *testing.T) {
	d, err := New("")
	if err != nil {
		t.Skipf("no device available: %v", err)
	}

	if d.Serial() == "" {
		t.Error("expected non-empty serial")
	}

	info, err := d.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Serial != d.Serial() {
		t.Errorf("info serial = %q, want %q", info.Serial, d.Serial())
	}

	xml, err := d.CaptureDump()
	if err != nil {
		t.Fatalf("CaptureDump: %v", err)
	}
	if !strings.Contains(xml, "<hierarchy") {
		t.Error("dump does not contain <hierarchy")
	}
}
