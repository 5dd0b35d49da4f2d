// Package config provides the playback configuration, its validation and presets.
package config

import "slices"

// Configuration is the validated set of native player options.
// Values are immutable by convention: every transform returns a copy.
type Configuration struct {
	// Hardware decoding
	HardwareAcceleration bool   `yaml:"hardware_acceleration"`
	HwdecMethod          string `yaml:"hwdec"`

	// Outputs
	VideoOutput string `yaml:"video_output"`
	AudioOutput string `yaml:"audio_output"`

	// Cache and network
	CacheSize        int    `yaml:"cache_size"`        // KB
	CacheSecs        int    `yaml:"cache_secs"`        // seconds
	DemuxerReadahead int    `yaml:"demuxer_readahead"` // seconds
	NetworkTimeout   int    `yaml:"network_timeout"`   // seconds
	UserAgent        string `yaml:"user_agent"`

	// Playback
	KeepOpen bool `yaml:"keep_open"`
	Volume   int  `yaml:"volume"` // 0-100

	// Native log level forwarded to the engine logger.
	LogLevel string `yaml:"log_level"`
}

// Documented bounds enforced by Validate.
const (
	MinCacheSize        = 1000
	MaxCacheSize        = 1000000
	MinCacheSecs        = 1
	MaxCacheSecs        = 300
	MinDemuxerReadahead = 1
	MaxDemuxerReadahead = 60
	MinNetworkTimeout   = 5
	MaxNetworkTimeout   = 300
	MinVolume           = 0
	MaxVolume           = 100

	DefaultHwdecMethod = "auto"
	DefaultLogLevel    = "info"
	DefaultVideoOutput = "libmpv"
	DefaultAudioOutput = "auto"
	DefaultUserAgent   = "IPTV-Player/1.0"
)

// HwdecMethods lists the accepted hardware decoding methods.
var HwdecMethods = []string{"auto", "auto-safe", "videotoolbox", "vaapi", "vdpau", "d3d11va", "dxva2", "nvdec", "no"}

// LogLevels lists the accepted native log levels.
var LogLevels = []string{"no", "fatal", "error", "warn", "info", "v", "debug", "trace"}

// Default returns a Configuration with default values.
func Default() Configuration {
	return Configuration{
		HardwareAcceleration: true,
		HwdecMethod:          DefaultHwdecMethod,
		VideoOutput:          DefaultVideoOutput,
		AudioOutput:          DefaultAudioOutput,
		CacheSize:            150000,
		CacheSecs:            10,
		DemuxerReadahead:     5,
		NetworkTimeout:       30,
		UserAgent:            DefaultUserAgent,
		KeepOpen:             false,
		Volume:               100,
		LogLevel:             DefaultLogLevel,
	}
}

// Validate returns c with every field forced into its documented range.
// It never fails: out-of-range numbers are clamped and unknown names are
// replaced with their defaults.
func Validate(c Configuration) Configuration {
	c.CacheSize = clamp(c.CacheSize, MinCacheSize, MaxCacheSize)
	c.CacheSecs = clamp(c.CacheSecs, MinCacheSecs, MaxCacheSecs)
	c.DemuxerReadahead = clamp(c.DemuxerReadahead, MinDemuxerReadahead, MaxDemuxerReadahead)
	c.NetworkTimeout = clamp(c.NetworkTimeout, MinNetworkTimeout, MaxNetworkTimeout)
	c.Volume = clamp(c.Volume, MinVolume, MaxVolume)

	if !slices.Contains(HwdecMethods, c.HwdecMethod) {
		c.HwdecMethod = DefaultHwdecMethod
	}
	if !c.HardwareAcceleration {
		c.HwdecMethod = "no"
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		c.LogLevel = DefaultLogLevel
	}

	if c.VideoOutput == "" {
		c.VideoOutput = DefaultVideoOutput
	}
	if c.AudioOutput == "" {
		c.AudioOutput = DefaultAudioOutput
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// EffectiveHwdec returns the hwdec value that is handed to the native player.
func (c Configuration) EffectiveHwdec() string {
	if !c.HardwareAcceleration {
		return "no"
	}
	return c.HwdecMethod
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
