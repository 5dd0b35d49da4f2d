package engine

import (
	"image"
	"strconv"
	"time"

	"github.com/samber/mo"

	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/mpv"
	"github.com/user/mpvplay/pkg/ports"
	"github.com/user/mpvplay/pkg/recovery"
	"github.com/user/mpvplay/pkg/render"
)

// control runs a playback command through the recovery policy: ignorable
// failures are swallowed, retryable ones are retried.
func (e *Engine) control(operation string, fn func(c *mpv.Client) error) error {
	err := e.withClient(fn)
	if err == nil {
		return nil
	}

	action := e.policy.HandleError(err, operation)
	switch action.Type {
	case recovery.Ignore:
		return nil
	case recovery.Retry:
		return recovery.WithRetry(e.lifetime, e.logger, action.MaxAttempts, action.Delay, func(int) error {
			return e.withClient(fn)
		})
	default:
		return err
	}
}

// Pause pauses playback.
func (e *Engine) Pause() error {
	err := e.control("pause", func(c *mpv.Client) error {
		return c.SetFlag("pause", true)
	})
	if err == nil {
		e.pbMu.Lock()
		if e.playback == PlaybackPlaying || e.playback == PlaybackBuffering {
			e.playback = PlaybackPaused
		}
		e.pbMu.Unlock()
	}
	return err
}

// Resume continues paused playback.
func (e *Engine) Resume() error {
	err := e.control("resume", func(c *mpv.Client) error {
		return c.SetFlag("pause", false)
	})
	if err == nil {
		e.pbMu.Lock()
		if e.playback == PlaybackPaused {
			e.playback = PlaybackPlaying
		}
		e.pbMu.Unlock()
	}
	return err
}

// Stop stops playback and cancels any scheduled reload.
func (e *Engine) Stop() error {
	e.cancelReload()
	return e.control("stop", func(c *mpv.Client) error {
		return c.Execute("stop")
	})
}

// Seek jumps to an absolute position in seconds.
func (e *Engine) Seek(position float64) error {
	pos := strconv.FormatFloat(position, 'f', -1, 64)
	return e.control("seek", func(c *mpv.Client) error {
		return c.Execute("seek", pos, "absolute")
	})
}

// SetVolume sets the volume, clamped to 0..100.
func (e *Engine) SetVolume(volume int) error {
	volume = min(max(volume, config.MinVolume), config.MaxVolume)
	return e.control("set_volume", func(c *mpv.Client) error {
		return c.SetDouble("volume", float64(volume))
	})
}

// Volume returns the current volume.
func (e *Engine) Volume() mo.Option[int] {
	v := e.getDouble("volume")
	if v.IsAbsent() {
		return mo.None[int]()
	}
	return mo.Some(int(v.MustGet() + 0.5))
}

// Position returns the playback position in seconds.
func (e *Engine) Position() mo.Option[float64] {
	return e.getDouble("time-pos")
}

// Duration returns the media duration in seconds. Live streams have none.
func (e *Engine) Duration() mo.Option[float64] {
	return e.getDouble("duration")
}

// IsPaused reports whether playback is paused.
func (e *Engine) IsPaused() bool {
	var paused mo.Option[bool]
	_ = e.withClient(func(c *mpv.Client) error {
		paused = c.GetFlag("pause")
		return nil
	})
	return paused.OrEmpty()
}

func (e *Engine) getDouble(name string) mo.Option[float64] {
	v := mo.None[float64]()
	_ = e.withClient(func(c *mpv.Client) error {
		v = c.GetDouble(name)
		return nil
	})
	return v
}

// PlayerState returns a snapshot of the playback state.
func (e *Engine) PlayerState() PlayerState {
	e.pbMu.Lock()
	s := PlayerState{
		Playback:     e.playback,
		URL:          e.url,
		ErrorMessage: e.errMsg,
	}
	e.pbMu.Unlock()

	if !e.CanPerformOperation() {
		return s
	}
	s.Position = e.Position().OrEmpty()
	s.Duration = e.Duration().OrEmpty()
	s.Volume = e.Volume().OrElse(e.Config().Volume)
	return s
}

// MediaInfo describes the loaded media. It is None until a file has loaded.
func (e *Engine) MediaInfo() mo.Option[MediaInfo] {
	e.pbMu.Lock()
	loaded, mediaURL, hints := e.loaded, e.url, e.hints
	e.pbMu.Unlock()
	if !loaded {
		return mo.None[MediaInfo]()
	}

	var info MediaInfo
	err := e.withClient(func(c *mpv.Client) error {
		info = readMediaInfo(c, mediaURL, hints)
		return nil
	})
	if err != nil {
		return mo.None[MediaInfo]()
	}
	return mo.Some(info)
}

func readMediaInfo(c *mpv.Client, mediaURL string, hints *ports.ProbeResult) MediaInfo {
	info := MediaInfo{
		URL:      mediaURL,
		Metadata: map[string]string{},
		HwDec:    c.GetString("hwdec-current").OrEmpty(),
	}
	if d, ok := c.GetDouble("duration").Get(); ok && d > 0 {
		info.Duration = time.Duration(d * float64(time.Second))
	}

	w := int(c.GetInt64("width").OrEmpty())
	h := int(c.GetInt64("height").OrEmpty())
	codec := c.GetString("video-codec").OrEmpty()
	if hints != nil {
		if w == 0 || h == 0 {
			w, h = hints.Width, hints.Height
		}
		if codec == "" {
			codec = hints.Codec
		}
	}
	if w > 0 && h > 0 {
		info.Video = &VideoFormat{
			Width:       w,
			Height:      h,
			PixelFormat: c.GetString("video-params/pixelformat").OrEmpty(),
			FPS:         c.GetDouble("container-fps").OrEmpty(),
			Codec:       codec,
		}
	}

	if rate, ok := c.GetInt64("audio-params/samplerate").Get(); ok {
		info.Audio = &AudioFormat{
			SampleRate: int(rate),
			Channels:   int(c.GetInt64("audio-params/channel-count").OrEmpty()),
			Format:     c.GetString("audio-params/format").OrEmpty(),
			Codec:      c.GetString("audio-codec-name").OrEmpty(),
		}
	} else if hints != nil && hints.HasAudio {
		info.Audio = &AudioFormat{}
	}

	for key, prop := range map[string]string{"title": "media-title", "format": "file-format"} {
		if v := c.GetString(prop).OrEmpty(); v != "" {
			info.Metadata[key] = v
		}
	}
	if len(info.Metadata) == 0 {
		info.Metadata = nil
	}
	return info
}

// AcquireFrame renders the current video frame. It never blocks on
// teardown and returns None once release has started. When the player is
// busy the previous frame is returned.
func (e *Engine) AcquireFrame() mo.Option[*image.RGBA] {
	if !e.opMu.TryRLock() {
		return e.previousFrame()
	}
	defer e.opMu.RUnlock()
	if e.State() != StateInitialized || e.renderer == nil {
		return mo.None[*image.RGBA]()
	}
	frame := e.renderer.AcquireFrame()
	if img, ok := frame.Get(); ok {
		e.lastFrame.Store(img)
	}
	return frame
}

func (e *Engine) previousFrame() mo.Option[*image.RGBA] {
	if e.State() != StateInitialized {
		return mo.None[*image.RGBA]()
	}
	if img := e.lastFrame.Load(); img != nil {
		return mo.Some(img)
	}
	return mo.None[*image.RGBA]()
}

// RenderToSurface draws the current frame letterboxed onto surface. The
// surface is cleared to black when no frame is available.
func (e *Engine) RenderToSurface(surface ports.Surface, width, height int) {
	if !e.opMu.TryRLock() {
		return
	}
	defer e.opMu.RUnlock()
	if e.State() != StateInitialized || e.renderer == nil {
		return
	}
	e.renderer.RenderToSurface(surface, width, height)
}

// AspectRatio returns the video aspect ratio, or 16:9 while it is unknown.
func (e *Engine) AspectRatio() float64 {
	e.opMu.RLock()
	defer e.opMu.RUnlock()
	if e.renderer == nil {
		return render.DefaultAspectRatio
	}
	return e.renderer.AspectRatio()
}
