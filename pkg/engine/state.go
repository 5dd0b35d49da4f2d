package engine

import "time"

// ResourceState is the lifecycle state of an engine.
type ResourceState int32

const (
	StateUninitialized ResourceState = iota
	StateInitialized
	StateReleasing
	StateReleased
)

func (s ResourceState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateReleasing:
		return "releasing"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

var resourceStateNames = []string{
	StateUninitialized.String(),
	StateInitialized.String(),
	StateReleasing.String(),
	StateReleased.String(),
}

// PlaybackState is what the player is doing with the current media.
type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackBuffering
	PlaybackPlaying
	PlaybackPaused
	PlaybackEnded
	PlaybackError
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackBuffering:
		return "buffering"
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	case PlaybackEnded:
		return "ended"
	case PlaybackError:
		return "error"
	default:
		return "unknown"
	}
}

// PlayerState is a snapshot for the UI.
type PlayerState struct {
	Playback     PlaybackState `json:"playback"`
	URL          string        `json:"url,omitempty"`
	Position     float64       `json:"position"`
	Duration     float64       `json:"duration"`
	Volume       int           `json:"volume"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// IsPlaying reports whether media is playing.
func (s PlayerState) IsPlaying() bool {
	return s.Playback == PlaybackPlaying
}

// VideoFormat describes the decoded video stream.
type VideoFormat struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	PixelFormat string  `json:"pixel_format,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
	Codec       string  `json:"codec,omitempty"`
}

// AudioFormat describes the decoded audio stream.
type AudioFormat struct {
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Format     string `json:"format,omitempty"`
	Codec      string `json:"codec,omitempty"`
}

// MediaInfo is read from the player after a file has loaded.
type MediaInfo struct {
	URL      string            `json:"url"`
	Duration time.Duration     `json:"duration"`
	Video    *VideoFormat      `json:"video,omitempty"`
	Audio    *AudioFormat      `json:"audio,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	HwDec    string            `json:"hwdec,omitempty"`
}

// IsSeekable reports whether the media has a known duration. Live streams do not.
func (m MediaInfo) IsSeekable() bool {
	return m.Duration > 0
}

// HasVideo reports whether a video stream is present.
func (m MediaInfo) HasVideo() bool {
	return m.Video != nil && m.Video.Width > 0 && m.Video.Height > 0
}

// HasAudio reports whether an audio stream is present.
func (m MediaInfo) HasAudio() bool {
	return m.Audio != nil
}
