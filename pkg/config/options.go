package config

import "strconv"

// Option is a single native option assignment.
type Option struct {
	Name  string
	Value string
}

// Options returns the native options for c in the order they are applied
// before the player is initialized. c should already be validated.
func Options(c Configuration) []Option {
	opts := []Option{
		// Outputs
		{"vo", c.VideoOutput},
		{"ao", c.AudioOutput},
		{"audio-channels", "stereo"},
		{"volume", strconv.Itoa(c.Volume)},
		{"audio-fallback-to-null", "yes"},
		{"ad-lavc-downmix", "yes"},

		// Decoding
		{"hwdec", c.EffectiveHwdec()},
		{"vd-lavc-threads", "0"},
		{"vd-lavc-fast", "yes"},
		{"ad-lavc-o", "err_detect=ignore_err"},
		{"demuxer-lavf-o", "fflags=+genpts+igndts+ignidx"},

		// Cache
		{"cache", "yes"},
		{"demuxer-max-bytes", strconv.Itoa(c.CacheSize * 1024)},
		{"demuxer-max-back-bytes", strconv.Itoa(c.CacheSize * 1024)},
		{"cache-secs", strconv.Itoa(c.CacheSecs)},
		{"demuxer-readahead-secs", strconv.Itoa(c.DemuxerReadahead)},

		// Network
		{"network-timeout", strconv.Itoa(c.NetworkTimeout)},
		{"user-agent", c.UserAgent},
		{"http-header-fields", "Connection: keep-alive"},
		{"stream-lavf-o", "reconnect=1,reconnect_streamed=1,reconnect_delay_max=5"},
		{"hls-bitrate", "max"},
	}

	keepOpen := "no"
	if c.KeepOpen {
		keepOpen = "yes"
	}
	opts = append(opts, Option{"keep-open", keepOpen})
	return opts
}
