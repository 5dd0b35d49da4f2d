// Package hwaccel detects hardware decoding backends and tracks the ones
// that have failed during this process.
//
// Detection is a cheap device probe: it proves a backend is plausible, not
// that decoding works. Backends that fail at runtime are recorded with
// RecordFailure and are not offered again until ResetFailureTracking.
package hwaccel

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/user/mpvplay/pkg/adapters/osfilesystem"
	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/ports"
)

// Type is a hardware decoding backend.
type Type int

const (
	None Type = iota
	VideoToolbox
	VAAPI
	VDPAU
	DXVA2
	D3D11VA
)

// String returns the display name of the backend.
func (t Type) String() string {
	switch t {
	case VideoToolbox:
		return "VIDEOTOOLBOX"
	case VAAPI:
		return "VAAPI"
	case VDPAU:
		return "VDPAU"
	case DXVA2:
		return "DXVA2"
	case D3D11VA:
		return "D3D11VA"
	default:
		return "NONE"
	}
}

// HwdecName returns the native hwdec option value for the backend.
func (t Type) HwdecName() string {
	switch t {
	case VideoToolbox:
		return "videotoolbox"
	case VAAPI:
		return "vaapi"
	case VDPAU:
		return "vdpau"
	case DXVA2:
		return "dxva2"
	case D3D11VA:
		return "d3d11va"
	default:
		return "no"
	}
}

// TypeFromHwdec maps a hwdec option value, or a hwdec-current value such
// as "vaapi-copy", back to a backend. "auto" and unknown values map to None.
func TypeFromHwdec(method string) Type {
	switch strings.TrimSuffix(method, "-copy") {
	case "videotoolbox":
		return VideoToolbox
	case "vaapi":
		return VAAPI
	case "vdpau":
		return VDPAU
	case "dxva2":
		return DXVA2
	case "d3d11va":
		return D3D11VA
	default:
		return None
	}
}

// HardwareAcceleration is the result of a detection.
type HardwareAcceleration struct {
	Type       Type
	Available  bool
	DeviceName string
}

// FallbackEvent records a backend failure.
type FallbackEvent struct {
	Type      Type
	Reason    string
	Timestamp time.Time
}

// FallbackListener is notified synchronously when a failure is recorded.
type FallbackListener func(t Type, reason string)

// Linux device probes, in preference order.
var (
	vaapiDevices    = []string{"/dev/dri/renderD128", "/dev/dri/renderD129", "/dev/dri/card0"}
	nvidiaVersionFn = "/proc/driver/nvidia/version"
)

const recentEventCount = 5

// Detector probes the platform for a hardware decoding backend and keeps the
// failure history.
type Detector struct {
	fs   ports.FileSystem
	goos string
	now  func() time.Time

	mu       sync.RWMutex
	history  []FallbackEvent
	failed   map[Type]bool
	listener FallbackListener
}

// New creates a Detector for the running platform.
func New(fs ports.FileSystem) *Detector {
	return NewForPlatform(fs, runtime.GOOS)
}

// NewForPlatform creates a Detector that probes as if running on goos.
func NewForPlatform(fs ports.FileSystem, goos string) *Detector {
	return &Detector{
		fs:     fs,
		goos:   goos,
		now:    time.Now,
		failed: make(map[Type]bool),
	}
}

var (
	sharedOnce sync.Once
	shared     *Detector
)

// Shared returns the process-wide Detector.
func Shared() *Detector {
	sharedOnce.Do(func() {
		shared = New(osfilesystem.New())
	})
	return shared
}

// Detect returns the preferred backend of the platform. A backend that has
// failed before is reported as None.
func (d *Detector) Detect() HardwareAcceleration {
	detected := d.probe()
	if detected.Type != None && d.HasFailedBefore(detected.Type) {
		return HardwareAcceleration{Type: None}
	}
	return detected
}

func (d *Detector) probe() HardwareAcceleration {
	switch d.goos {
	case "darwin":
		return HardwareAcceleration{Type: VideoToolbox, Available: true, DeviceName: "VideoToolbox"}
	case "windows":
		return HardwareAcceleration{Type: D3D11VA, Available: true, DeviceName: "D3D11VA"}
	case "linux":
		for _, dev := range vaapiDevices {
			if d.fs.CanRead(dev) {
				return HardwareAcceleration{Type: VAAPI, Available: true, DeviceName: dev}
			}
		}
		if ok, _ := d.fs.Exists(nvidiaVersionFn); ok {
			return HardwareAcceleration{Type: VDPAU, Available: true, DeviceName: d.nvidiaDriver()}
		}
	}
	return HardwareAcceleration{Type: None}
}

func (d *Detector) nvidiaDriver() string {
	data, err := d.fs.ReadFile(nvidiaVersionFn)
	if err != nil {
		return "VDPAU"
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "VDPAU"
	}
	return line
}

// ConfigurationFor resolves "auto" to the detected backend. An explicitly
// requested method is kept unless it has failed before, in which case the
// configuration falls back to software decoding.
func (d *Detector) ConfigurationFor(c config.Configuration) config.Configuration {
	if !c.HardwareAcceleration {
		return config.Validate(c)
	}
	if c.HwdecMethod != "auto" {
		if t := TypeFromHwdec(c.HwdecMethod); t != None && d.HasFailedBefore(t) {
			c.HwdecMethod = "no"
		}
		return config.Validate(c)
	}
	// auto lets the native library pick a backend we have not ruled out
	if hw := d.Detect(); hw.Type != None {
		c.HwdecMethod = hw.Type.HwdecName()
	}
	return config.Validate(c)
}

// RecordFailure appends a fallback event and marks t as failed for the rest
// of the process. The listener, if any, is called before RecordFailure returns.
func (d *Detector) RecordFailure(t Type, reason string) {
	d.mu.Lock()
	d.history = append(d.history, FallbackEvent{Type: t, Reason: reason, Timestamp: d.now()})
	d.failed[t] = true
	listener := d.listener
	d.mu.Unlock()

	if listener != nil {
		listener(t, reason)
	}
}

// HasFailedBefore reports whether t has been recorded as failed.
func (d *Detector) HasFailedBefore(t Type) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.failed[t]
}

// ResetFailureTracking clears the failure history.
func (d *Detector) ResetFailureTracking() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = nil
	d.failed = make(map[Type]bool)
}

// SetFallbackListener registers the listener called on every recorded failure.
// Passing nil removes it.
func (d *Detector) SetFallbackListener(l FallbackListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = l
}

// History returns a copy of the fallback events in recording order.
func (d *Detector) History() []FallbackEvent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]FallbackEvent, len(d.history))
	copy(out, d.history)
	return out
}

// FallbackStatistics renders a diagnostic summary of the failure history.
func (d *Detector) FallbackStatistics() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Hardware acceleration fallback statistics:\n")
	fmt.Fprintf(&b, "  Total fallback events: %d\n", len(d.history))

	var failed []string
	for _, t := range []Type{VideoToolbox, VAAPI, VDPAU, DXVA2, D3D11VA, None} {
		if d.failed[t] {
			failed = append(failed, t.String())
		}
	}
	if len(failed) == 0 {
		b.WriteString("  Failed types: none\n")
	} else {
		fmt.Fprintf(&b, "  Failed types: %s\n", strings.Join(failed, ", "))
	}

	if len(d.history) > 0 {
		b.WriteString("  Recent events:\n")
		start := len(d.history) - recentEventCount
		if start < 0 {
			start = 0
		}
		for _, ev := range d.history[start:] {
			fmt.Fprintf(&b, "    [%s] %s: %s\n", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Type, ev.Reason)
		}
	}
	return b.String()
}
