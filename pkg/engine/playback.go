package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/user/mpvplay/pkg/hwaccel"
	"github.com/user/mpvplay/pkg/mpv"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
	"github.com/user/mpvplay/pkg/recovery"
)

// Play loads mediaURL, replacing the current media. Load failures are
// classified by the recovery policy; retryable ones are retried with
// exponential backoff before the last error is returned.
func (e *Engine) Play(ctx context.Context, mediaURL string) error {
	if strings.TrimSpace(mediaURL) == "" {
		err := mpverr.Playback(0, "Invalid playback URL", "")
		e.policy.HandleError(err, "play")
		return err
	}
	if err := e.checkOperational(); err != nil {
		return err
	}

	hints, err := e.probeMedia(mediaURL)
	if err != nil {
		e.policy.HandleError(err, "probe")
		return err
	}

	e.cancelReload()
	e.pbMu.Lock()
	e.url = mediaURL
	e.errMsg = ""
	e.hints = hints
	e.reloadAttempts = 0
	e.pbMu.Unlock()

	e.logger.WithFields(ports.Fields{"url": mediaURL}).Info("Loading media")
	err = e.load(mediaURL)
	if err == nil {
		return nil
	}

	action := e.policy.HandleError(err, "play")
	if action.Type != recovery.Retry {
		e.setPlaybackError(mpverr.UserMessage(err))
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	unregister := context.AfterFunc(e.lifetime, stop)
	defer unregister()

	err = recovery.WithRetry(ctx, e.logger, action.MaxAttempts, action.Delay, func(attempt int) error {
		e.metrics.ObserveRetry()
		return e.load(mediaURL)
	})
	if err != nil {
		e.setPlaybackError(mpverr.UserMessage(err))
	}
	return err
}

func (e *Engine) load(mediaURL string) error {
	return e.withClient(func(c *mpv.Client) error {
		return c.Execute("loadfile", mediaURL, "replace")
	})
}

// probeMedia inspects local files the probe understands. Remote URLs and
// engines without a probe yield no hints.
func (e *Engine) probeMedia(mediaURL string) (*ports.ProbeResult, error) {
	if e.probe == nil {
		return nil, nil
	}
	path, ok := localPath(mediaURL)
	if !ok || !e.probe.CanProbe(path) {
		return nil, nil
	}
	res, err := e.probe.Probe(path)
	if err != nil {
		return nil, mpverr.Playback(mpverr.CodeUnknownFormat, err.Error(), mediaURL)
	}
	e.logger.WithFields(ports.Fields{
		"codec":  res.Codec,
		"width":  res.Width,
		"height": res.Height,
	}).Debug("Probed %s", path)
	return &res, nil
}

func localPath(mediaURL string) (string, bool) {
	if !strings.Contains(mediaURL, "://") {
		return mediaURL, true
	}
	u, err := url.Parse(mediaURL)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return u.Path, true
}

// dispatch runs on the event loop goroutine. Internal state is updated
// first, then the error callback, then the event callback, then the
// channel mirror.
func (e *Engine) dispatch(ev Event) {
	e.metrics.ObserveEvent(ev.Type())
	e.track(ev)

	e.cbMu.RLock()
	onEvent, onError := e.onEvent, e.onError
	e.cbMu.RUnlock()

	if ee, ok := ev.(ErrorEvent); ok && onError != nil {
		onError(mpverr.Playback(ee.Code, ee.Message, e.currentURL()))
	}
	if onEvent != nil {
		onEvent(ev)
	}
	e.mirror(ev)
}

func (e *Engine) mirror(ev Event) {
	e.cbMu.RLock()
	defer e.cbMu.RUnlock()
	if e.eventsClosed {
		return
	}
	select {
	case e.events <- ev:
	default:
		e.metrics.ObserveDroppedEvent()
	}
}

func (e *Engine) track(ev Event) {
	switch ev := ev.(type) {
	case StartFileEvent:
		e.setPlayback(PlaybackBuffering)
	case FileLoadedEvent:
		e.pbMu.Lock()
		e.playback = PlaybackPlaying
		e.loaded = true
		e.errMsg = ""
		e.reloadAttempts = 0
		e.pbMu.Unlock()
		e.logger.Info("File loaded")
	case EndFileEvent:
		e.handleEndFile(ev)
	case ErrorEvent:
		e.setPlaybackError(ev.Message)
	case LogMessageEvent:
		e.forwardLog(ev)
	case ShutdownEvent:
		e.logger.Debug("Native player shut down")
	}
}

func (e *Engine) handleEndFile(ev EndFileEvent) {
	if ev.Reason != EndFileError {
		e.setPlayback(PlaybackEnded)
		e.logger.Debug("Playback ended (%s)", ev.Reason.String())
		return
	}

	desc := e.client.ErrorString(ev.Error)
	msg := "Playback failed with unknown error"
	if ev.Error != 0 {
		msg = fmt.Sprintf("Playback failed: %s (code: %d)", desc, ev.Error)
	}
	e.setPlaybackError(msg)

	err := mpverr.Playback(ev.Error, desc, e.currentURL())
	e.scheduleRecovery(err)
}

// scheduleRecovery decides what to do after an asynchronous playback
// failure. Reloads happen on a timer so the event loop never sleeps.
func (e *Engine) scheduleRecovery(err error) {
	action := e.policy.HandleError(err, "playback")
	fellBack := e.fallbackToSoftware(err)
	if action.Type != recovery.Retry && !fellBack {
		return
	}

	maxAttempts, delay := action.MaxAttempts, action.Delay
	if action.Type != recovery.Retry {
		maxAttempts, delay = 1, 0
	}

	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	if e.url == "" || e.reloadAttempts >= maxAttempts {
		if e.reloadAttempts > 0 {
			e.logger.Error("Giving up on %s after %d reloads", e.url, e.reloadAttempts)
		}
		return
	}
	if e.lifetime.Err() != nil {
		return
	}

	wait := recovery.BackoffDelay(e.reloadAttempts, delay)
	e.reloadAttempts++
	attempt, target := e.reloadAttempts, e.url
	e.logger.WithFields(ports.Fields{
		"url":     target,
		"attempt": attempt,
		"delay":   wait.String(),
	}).Warn("Reloading %s in %s", target, wait)

	if e.reloadTimer != nil {
		e.reloadTimer.Stop()
	}
	e.reloadTimer = time.AfterFunc(wait, func() { e.reload(target) })
}

func (e *Engine) reload(target string) {
	if e.currentURL() != target || e.lifetime.Err() != nil {
		return
	}
	e.metrics.ObserveRetry()
	if err := e.load(target); err != nil {
		if e.CanPerformOperation() {
			e.scheduleRecovery(err)
		}
	}
}

func (e *Engine) cancelReload() {
	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	if e.reloadTimer != nil {
		e.reloadTimer.Stop()
		e.reloadTimer = nil
	}
}

// fallbackToSoftware switches decoding to software after a video output
// or codec failure while a hardware decoder is configured. It happens at
// most once per engine and records the failed backend with the detector.
func (e *Engine) fallbackToSoftware(err error) bool {
	me, ok := mpverr.As(err)
	if !ok || me.Kind != mpverr.KindPlayback {
		return false
	}
	if me.Code != mpverr.CodeVOInitFailed && me.Code != mpverr.CodeUnsupported {
		return false
	}

	var backend hwaccel.Type
	ferr := e.tryWithClient(func(c *mpv.Client) error {
		configured := e.cfg.EffectiveHwdec()
		if configured == "no" || e.software.Load() {
			return errNoHardware
		}
		current := c.GetString("hwdec-current").OrElse(configured)
		backend = hwaccel.TypeFromHwdec(current)
		if backend == hwaccel.None {
			backend = hwaccel.TypeFromHwdec(configured)
		}
		if backend == hwaccel.None {
			return errNoHardware
		}
		return c.SetString("hwdec", "no")
	})
	if ferr != nil {
		if ferr != errNoHardware {
			e.logger.Warn("Software decoding fallback failed: %s", ferr.Error())
		}
		return false
	}

	e.software.Store(true)
	e.detector.RecordFailure(backend, me.Error())
	e.metrics.ObserveFallback(backend.HwdecName())
	e.logger.WithFields(ports.Fields{"backend": backend.String()}).
		Warn("Hardware decoding %s failed, falling back to software decoding", backend.String())
	return true
}

var errNoHardware = errors.New("hardware decoding not active")

func (e *Engine) forwardLog(ev LogMessageEvent) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}
	log := e.logger.WithFields(ports.Fields{"native_prefix": ev.Prefix, "native_level": ev.Level})
	switch ports.ParseNativeLogLevel(ev.Level) {
	case ports.LevelError:
		log.Error("%s: %s", ev.Prefix, text)
	case ports.LevelWarn:
		log.Warn("%s: %s", ev.Prefix, text)
	case ports.LevelInfo:
		log.Info("%s: %s", ev.Prefix, text)
	default:
		log.Debug("%s: %s", ev.Prefix, text)
	}
}

func (e *Engine) setPlayback(s PlaybackState) {
	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	e.playback = s
}

func (e *Engine) setPlaybackError(msg string) {
	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	e.playback = PlaybackError
	e.errMsg = msg
}

func (e *Engine) currentURL() string {
	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	return e.url
}
