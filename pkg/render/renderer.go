// Package render pulls decoded frames from the player into RGBA images and
// draws them letterboxed onto a host surface.
package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/samber/mo"

	"github.com/user/mpvplay/pkg/metrics"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// DefaultAspectRatio is used until the video size is known.
const DefaultAspectRatio = 16.0 / 9.0

// MaxFrameDimension bounds the reported video width and height. Larger
// values are treated as an unknown size.
const MaxFrameDimension = 16384

// Source is the part of the player the renderer draws from.
type Source interface {
	CreateRenderContext() (ports.RenderHandle, error)
	Render(rc ports.RenderHandle, width, height, stride int, buf []byte) error
	FreeRenderContext(rc ports.RenderHandle)
	GetDouble(name string) mo.Option[float64]
}

// Renderer serializes every render-context operation under one lock.
type Renderer struct {
	src     Source
	logger  ports.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	rc        ports.RenderHandle
	buf       []byte
	width     int
	height    int
	frame     *image.RGBA
	destroyed bool
}

// New creates a Renderer. m may be nil.
func New(src Source, logger ports.Logger, m *metrics.Collector) *Renderer {
	return &Renderer{
		src:     src,
		logger:  logger.WithComponent("render"),
		metrics: m,
	}
}

// Initialize creates the render context. The player must already be initialized.
func (r *Renderer) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return mpverr.RenderContext("renderer has been destroyed")
	}
	if r.rc != 0 {
		return nil
	}
	rc, err := r.src.CreateRenderContext()
	if err != nil {
		return err
	}
	r.rc = rc
	r.logger.Debug("Render context created")
	return nil
}

// Ready reports whether a render context exists.
func (r *Renderer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rc != 0 && !r.destroyed
}

// AcquireFrame renders the current video frame. The previous frame is
// returned while the video size is unknown or when rendering fails.
func (r *Renderer) AcquireFrame() mo.Option[*image.RGBA] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.rc == 0 {
		return r.previous()
	}

	w, h, ok := r.videoSize()
	if !ok {
		return r.previous()
	}
	if w != r.width || h != r.height || r.buf == nil {
		r.buf = make([]byte, w*h*4)
		r.width, r.height = w, h
		r.logger.Debug("Frame buffer resized to %dx%d", w, h)
	}

	stride := w * 4
	if err := r.src.Render(r.rc, w, h, stride, r.buf); err != nil {
		r.logger.Debug("Render failed, reusing previous frame: %s", err.Error())
		return r.previous()
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, r.buf)
	// the native rgba format leaves alpha undefined
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	r.frame = img
	r.metrics.ObserveFrame(metrics.FrameRendered)
	return mo.Some(img)
}

func (r *Renderer) previous() mo.Option[*image.RGBA] {
	if r.frame == nil {
		r.metrics.ObserveFrame(metrics.FrameEmpty)
		return mo.None[*image.RGBA]()
	}
	r.metrics.ObserveFrame(metrics.FrameReused)
	return mo.Some(r.frame)
}

func (r *Renderer) videoSize() (int, int, bool) {
	w, okW := r.src.GetDouble("width").Get()
	h, okH := r.src.GetDouble("height").Get()
	if !okW || !okH || w < 1 || h < 1 || w > MaxFrameDimension || h > MaxFrameDimension {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// RenderToSurface clears the surface and draws the current frame letterboxed
// into a width x height area.
func (r *Renderer) RenderToSurface(surface ports.Surface, width, height int) {
	surface.Clear(color.Black)
	frame, ok := r.AcquireFrame().Get()
	if !ok {
		return
	}
	b := frame.Bounds()
	dst := Letterbox(b.Dx(), b.Dy(), width, height)
	if dst.Empty() {
		return
	}
	surface.DrawImageScaled(frame, dst)
}

// VideoSize returns the size of the last allocated frame buffer.
func (r *Renderer) VideoSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// AspectRatio returns width/height of the video, or DefaultAspectRatio.
func (r *Renderer) AspectRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.width < 1 || r.height < 1 {
		return DefaultAspectRatio
	}
	return float64(r.width) / float64(r.height)
}

// Destroy frees the render context. It must run before the player is destroyed.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.rc != 0 {
		r.src.FreeRenderContext(r.rc)
		r.rc = 0
	}
	r.buf = nil
	r.frame = nil
}

// Letterbox returns the largest rectangle with the source aspect ratio that
// fits in dstW x dstH, centered. An unknown source size uses 16:9.
func Letterbox(srcW, srcH, dstW, dstH int) image.Rectangle {
	if dstW < 1 || dstH < 1 {
		return image.Rectangle{}
	}
	aspect := DefaultAspectRatio
	if srcW > 0 && srcH > 0 {
		aspect = float64(srcW) / float64(srcH)
	}

	w, h := dstW, int(float64(dstW)/aspect+0.5)
	if h > dstH {
		h = dstH
		w = int(float64(dstH)*aspect + 0.5)
	}
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
