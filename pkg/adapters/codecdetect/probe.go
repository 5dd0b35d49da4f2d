// Package codecdetect reads MP4 container headers to describe local media
// before it is handed to the native player.
package codecdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/mpvplay/pkg/ports"
)

// Codec names reported in ports.ProbeResult.
const (
	CodecH264    = "h264"
	CodecHEVC    = "hevc"
	CodecAV1     = "av1"
	CodecVP9     = "vp9"
	CodecUnknown = "unknown"
)

var extensions = []string{".mp4", ".m4v", ".mov"}

// Probe implements ports.MediaProbe for ISO BMFF files.
type Probe struct{}

// New creates a Probe.
func New() *Probe {
	return &Probe{}
}

// CanProbe reports whether path has an MP4 family extension.
func (p *Probe) CanProbe(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Probe reads the headers of the file at path.
func (p *Probe) Probe(path string) (ports.ProbeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeBytes reads the headers of an in-memory MP4.
func ProbeBytes(data []byte) (ports.ProbeResult, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader reads the headers from r.
func ProbeReader(r io.ReadSeeker) (ports.ProbeResult, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("decode mp4: %w", err)
	}

	res := ports.ProbeResult{Codec: CodecUnknown}
	var video, tracks bool
	for _, moov := range moovBoxes(file) {
		for _, trak := range moov.Traks {
			if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
				continue
			}
			tracks = true
			switch trak.Mdia.Hdlr.HandlerType {
			case "vide":
				if !video {
					video = describeVideo(trak, &res)
				}
			case "soun":
				res.HasAudio = true
			}
		}
	}

	if !tracks {
		return ports.ProbeResult{}, fmt.Errorf("no tracks found")
	}
	return res, nil
}

// moovBoxes returns the movie boxes of both progressive and fragmented files.
func moovBoxes(file *mp4.File) []*mp4.MoovBox {
	var out []*mp4.MoovBox
	if file.Init != nil && file.Init.Moov != nil {
		out = append(out, file.Init.Moov)
	}
	if file.Moov != nil && (file.Init == nil || file.Init.Moov != file.Moov) {
		out = append(out, file.Moov)
	}
	return out
}

func describeVideo(trak *mp4.TrakBox, res *ports.ProbeResult) bool {
	if trak.Tkhd != nil {
		res.Width = int(trak.Tkhd.Width >> 16)
		res.Height = int(trak.Tkhd.Height >> 16)
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return res.Width > 0
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		codec := codecFor(child.Type())
		if codec == CodecUnknown {
			continue
		}
		res.Codec = codec
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 {
			res.Width = int(vse.Width)
			res.Height = int(vse.Height)
		}
		return true
	}
	return res.Width > 0
}

func codecFor(boxType string) string {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	}
	return CodecUnknown
}

var _ ports.MediaProbe = (*Probe)(nil)
