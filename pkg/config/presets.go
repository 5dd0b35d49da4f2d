package config

import (
	"fmt"
	"sort"
)

// PresetName identifies a pre-built configuration.
type PresetName string

const (
	PresetDefault       PresetName = "default"
	PresetLiveStreaming PresetName = "live-streaming"
	PresetLowLatency    PresetName = "low-latency"
	PresetVOD           PresetName = "vod"
	PresetHighQuality   PresetName = "high-quality"
	PresetSoftwareOnly  PresetName = "software-only"
	PresetVideoOnly     PresetName = "video-only"
	PresetMacOS         PresetName = "macos"
	PresetLinuxVAAPI    PresetName = "linux-vaapi"
	PresetLinuxVDPAU    PresetName = "linux-vdpau"
	PresetWindows       PresetName = "windows"
)

// LiveStreaming uses a small cache for live channels.
func LiveStreaming() Configuration {
	c := Default()
	c.CacheSize = 50000
	c.CacheSecs = 5
	c.DemuxerReadahead = 2
	c.NetworkTimeout = 15
	return c
}

// LowLatency minimises buffering delay.
func LowLatency() Configuration {
	c := Default()
	c.CacheSize = 50000
	c.CacheSecs = 2
	c.DemuxerReadahead = 1
	return c
}

// VOD uses a large cache for on-demand content.
func VOD() Configuration {
	c := Default()
	c.CacheSize = 300000
	c.CacheSecs = 20
	c.DemuxerReadahead = 10
	c.NetworkTimeout = 60
	return c
}

// HighQuality buffers generously for high bitrate streams.
func HighQuality() Configuration {
	c := Default()
	c.CacheSize = 300000
	c.CacheSecs = 20
	c.DemuxerReadahead = 10
	return c
}

// SoftwareOnly disables hardware decoding.
func SoftwareOnly() Configuration {
	c := Default()
	c.HardwareAcceleration = false
	c.HwdecMethod = "no"
	return c
}

// VideoOnly discards audio.
func VideoOnly() Configuration {
	c := Default()
	c.AudioOutput = "null"
	c.Volume = 0
	return c
}

// MacOS uses VideoToolbox and CoreAudio.
func MacOS() Configuration {
	c := Default()
	c.HwdecMethod = "videotoolbox"
	c.AudioOutput = "coreaudio"
	return c
}

// LinuxVAAPI uses VA-API and PulseAudio.
func LinuxVAAPI() Configuration {
	c := Default()
	c.HwdecMethod = "vaapi"
	c.AudioOutput = "pulse"
	return c
}

// LinuxVDPAU uses VDPAU and PulseAudio.
func LinuxVDPAU() Configuration {
	c := Default()
	c.HwdecMethod = "vdpau"
	c.AudioOutput = "pulse"
	return c
}

// Windows uses D3D11VA and WASAPI.
func Windows() Configuration {
	c := Default()
	c.HwdecMethod = "d3d11va"
	c.AudioOutput = "wasapi"
	return c
}

var presets = map[PresetName]func() Configuration{
	PresetDefault:       Default,
	PresetLiveStreaming: LiveStreaming,
	PresetLowLatency:    LowLatency,
	PresetVOD:           VOD,
	PresetHighQuality:   HighQuality,
	PresetSoftwareOnly:  SoftwareOnly,
	PresetVideoOnly:     VideoOnly,
	PresetMacOS:         MacOS,
	PresetLinuxVAAPI:    LinuxVAAPI,
	PresetLinuxVDPAU:    LinuxVDPAU,
	PresetWindows:       Windows,
}

// Preset returns the named configuration.
func Preset(name PresetName) (Configuration, error) {
	fn, ok := presets[name]
	if !ok {
		return Default(), fmt.Errorf("unknown preset %q", name)
	}
	return fn(), nil
}

// PresetNames returns all preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
