// Package ggrenderer provides a frame surface implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/mpvplay/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateSurface creates a new drawing surface filled with bg.
func (r *Renderer) CreateSurface(width, height int, bg color.Color) ports.Surface {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Surface{dc: dc}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Surface implements ports.Surface on a gg.Context.
type Surface struct {
	dc *gg.Context
}

// Size returns the surface dimensions.
func (s *Surface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

// Clear fills the surface with col.
func (s *Surface) Clear(col color.Color) {
	s.dc.SetColor(col)
	s.dc.Clear()
}

// DrawImageScaled scales img into dst. Equal sizes are copied without resampling.
func (s *Surface) DrawImageScaled(img image.Image, dst image.Rectangle) {
	b := img.Bounds()
	if b.Dx() == dst.Dx() && b.Dy() == dst.Dy() {
		s.dc.DrawImage(img, dst.Min.X, dst.Min.Y)
		return
	}

	rgba, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		scaled := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		s.dc.DrawImage(scaled, dst.Min.X, dst.Min.Y)
		return
	}
	draw.CatmullRom.Scale(rgba, dst, img, b, draw.Src, nil)
}

// ToImage returns the surface as an image.Image.
func (s *Surface) ToImage() image.Image {
	return s.dc.Image()
}

var _ ports.Surface = (*Surface)(nil)
