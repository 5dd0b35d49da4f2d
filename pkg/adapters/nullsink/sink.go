// Package nullsink provides a no-op frame sink implementation.
package nullsink

import (
	"image"

	"github.com/user/mpvplay/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
// It discards all frames and media information.
type Sink struct{}

// New creates a Sink that discards everything.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	return nil
}

// SaveMediaInfo does nothing.
func (s *Sink) SaveMediaInfo(data []byte) error {
	return nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
