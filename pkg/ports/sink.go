package ports

import (
	"image"
)

// FrameSink receives snapshots of presented frames and media diagnostics.
type FrameSink interface {
	// Enabled returns true if the sink stores anything.
	Enabled() bool

	// SaveFrame saves a rendered frame under the given index.
	SaveFrame(index int, img image.Image) error

	// SaveMediaInfo saves the media information document as JSON.
	SaveMediaInfo(data []byte) error
}
