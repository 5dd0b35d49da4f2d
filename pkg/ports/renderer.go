package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the image operations needed to present decoded frames.
type Renderer interface {
	// CreateSurface creates a new drawing surface with the specified dimensions and background color.
	CreateSurface(width, height int, bg color.Color) Surface

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Surface is a host drawing target that frames are blitted onto.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Clear fills the whole surface with a color.
	Clear(c color.Color)

	// DrawImageScaled draws an image scaled into the destination rectangle.
	DrawImageScaled(img image.Image, dst image.Rectangle)

	// ToImage returns the surface contents as an image.Image.
	ToImage() image.Image
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
