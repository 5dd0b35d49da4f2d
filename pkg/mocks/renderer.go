package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/mpvplay/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateSurfaceFunc func(width, height int, bg color.Color) ports.Surface
	EncodeImageFunc   func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc   func(img image.Image, width, height int) image.Image
}

func (m *Renderer) CreateSurface(width, height int, bg color.Color) ports.Surface {
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height, bg)
	}
	return NewSurface(width, height)
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Draw is one DrawImageScaled call recorded by Surface.
type Draw struct {
	Image image.Image
	Dst   image.Rectangle
}

// Surface is a mock implementation of ports.Surface that records draws.
type Surface struct {
	mu     sync.Mutex
	width  int
	height int

	Clears []color.Color
	Draws  []Draw
}

// NewSurface creates a mock Surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (m *Surface) Size() (int, int) {
	return m.width, m.height
}

func (m *Surface) Clear(c color.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears = append(m.Clears, c)
}

func (m *Surface) DrawImageScaled(img image.Image, dst image.Rectangle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Draws = append(m.Draws, Draw{Image: img, Dst: dst})
}

func (m *Surface) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Surface = (*Surface)(nil)
