package ports

// ProbeResult describes the video track of a local media container.
type ProbeResult struct {
	Codec    string // h264, hevc, av1, vp9 or unknown
	Width    int
	Height   int
	HasAudio bool
}

// MediaProbe inspects local media files before they are handed to the native player.
type MediaProbe interface {
	// CanProbe reports whether the probe understands the container of path.
	CanProbe(path string) bool

	// Probe reads the container headers of path.
	Probe(path string) (ProbeResult, error)
}
