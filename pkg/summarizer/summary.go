// Package summarizer renders a report of one playback session.
package summarizer

import "time"

// Summary contains the data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Version     string
	EngineID    string

	Media    MediaInfo
	Session  SessionInfo
	Settings Settings
	Release  ReleaseInfo

	// FallbackStatistics is the hardware decoding failure report.
	FallbackStatistics string
}

// MediaInfo describes the media that was playing last.
type MediaInfo struct {
	URL      string
	Title    string
	Codec    string
	Width    int
	Height   int
	HwDec    string
	Duration time.Duration // zero for live streams
}

// SessionInfo contains what happened while playing.
type SessionInfo struct {
	Channels     []string
	Switches     int
	PlayedFor    time.Duration
	FinalState   string
	ErrorMessage string
	Snapshots    int
}

// Settings contains the playback configuration in effect.
type Settings struct {
	Preset         string
	Hwdec          string
	Volume         int
	CacheSecs      int
	NetworkTimeout int
}

// ReleaseInfo records the outcome of releasing the player.
type ReleaseInfo struct {
	Skipped bool
	Steps   []string
	Error   string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithVersion sets the program version and engine id.
func (b *Builder) WithVersion(version, engineID string) *Builder {
	b.summary.Version = version
	b.summary.EngineID = engineID
	return b
}

// WithMedia sets media information.
func (b *Builder) WithMedia(media MediaInfo) *Builder {
	b.summary.Media = media
	return b
}

// WithSession sets session information.
func (b *Builder) WithSession(session SessionInfo) *Builder {
	b.summary.Session = session
	return b
}

// WithSettings sets playback settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRelease sets the release outcome.
func (b *Builder) WithRelease(skipped bool, steps []string, err error) *Builder {
	b.summary.Release = ReleaseInfo{Skipped: skipped, Steps: steps}
	if err != nil {
		b.summary.Release.Error = err.Error()
	}
	return b
}

// WithFallbackStatistics sets the hardware decoding failure report.
func (b *Builder) WithFallbackStatistics(stats string) *Builder {
	b.summary.FallbackStatistics = stats
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
