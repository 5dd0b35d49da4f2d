package config

// Builder provides a fluent interface for building a Configuration.
type Builder struct {
	config Configuration
}

// NewBuilder creates a new Builder starting from Default.
func NewBuilder() *Builder {
	return &Builder{config: Default()}
}

// NewBuilderFrom creates a new Builder starting from base.
func NewBuilderFrom(base Configuration) *Builder {
	return &Builder{config: base}
}

// Build returns the validated Configuration.
func (b *Builder) Build() Configuration {
	return Validate(b.config)
}

// WithHardwareAcceleration enables or disables hardware decoding.
func (b *Builder) WithHardwareAcceleration(enabled bool) *Builder {
	b.config.HardwareAcceleration = enabled
	return b
}

// WithHwdecMethod sets the hardware decoding method.
// Unknown methods fall back to "auto".
func (b *Builder) WithHwdecMethod(method string) *Builder {
	b.config.HwdecMethod = method
	return b
}

// WithVideoOutput sets the video output driver.
func (b *Builder) WithVideoOutput(vo string) *Builder {
	b.config.VideoOutput = vo
	return b
}

// WithAudioOutput sets the audio output driver.
func (b *Builder) WithAudioOutput(ao string) *Builder {
	b.config.AudioOutput = ao
	return b
}

// WithCacheSize sets the demuxer cache size in KB.
func (b *Builder) WithCacheSize(kb int) *Builder {
	b.config.CacheSize = kb
	return b
}

// WithCacheSecs sets the cache duration in seconds.
func (b *Builder) WithCacheSecs(secs int) *Builder {
	b.config.CacheSecs = secs
	return b
}

// WithDemuxerReadahead sets the demuxer read-ahead in seconds.
func (b *Builder) WithDemuxerReadahead(secs int) *Builder {
	b.config.DemuxerReadahead = secs
	return b
}

// WithNetworkTimeout sets the network timeout in seconds.
func (b *Builder) WithNetworkTimeout(secs int) *Builder {
	b.config.NetworkTimeout = secs
	return b
}

// WithUserAgent sets the HTTP user agent.
func (b *Builder) WithUserAgent(ua string) *Builder {
	b.config.UserAgent = ua
	return b
}

// WithKeepOpen keeps the last frame after playback ends.
func (b *Builder) WithKeepOpen(keep bool) *Builder {
	b.config.KeepOpen = keep
	return b
}

// WithVolume sets the initial volume (0-100).
func (b *Builder) WithVolume(volume int) *Builder {
	b.config.Volume = volume
	return b
}

// WithLogLevel sets the native log level.
func (b *Builder) WithLogLevel(level string) *Builder {
	b.config.LogLevel = level
	return b
}

// ForCurrentPlatform applies the platform overlay.
func (b *Builder) ForCurrentPlatform() *Builder {
	b.config = ForCurrentPlatform(b.config)
	return b
}
