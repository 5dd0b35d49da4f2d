// Package filesink provides a file-based frame sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/mpvplay/pkg/ports"
)

// Sink saves frame snapshots and media information to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	maxWidth int
}

// New creates a new Sink. Frames wider than maxWidth are scaled down
// keeping their aspect ratio; 0 keeps the original size.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer, maxWidth int) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
		maxWidth: maxWidth,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves a frame as frames/frame-NNNN.png.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	if b := img.Bounds(); s.maxWidth > 0 && b.Dx() > s.maxWidth {
		h := b.Dy() * s.maxWidth / b.Dx()
		img = s.renderer.ResizeImage(img, s.maxWidth, max(h, 1))
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index))
	return s.fs.WriteFile(path, data)
}

// SaveMediaInfo saves the media information document as mediainfo.json.
func (s *Sink) SaveMediaInfo(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "mediainfo.json"), data)
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
