// Package engine drives one native player instance through its lifecycle:
// initialization, playback, event dispatch, rendering and release.
package engine

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/user/mpvplay/pkg/adapters/logger"
	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/hwaccel"
	"github.com/user/mpvplay/pkg/metrics"
	"github.com/user/mpvplay/pkg/mpv"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/pipeline"
	"github.com/user/mpvplay/pkg/ports"
	"github.com/user/mpvplay/pkg/recovery"
	"github.com/user/mpvplay/pkg/render"
)

// Release step names, in execution order.
const (
	StepStopPlayback    = "stop_playback"
	StepRemoveListeners = "remove_listeners"
	StepReleasePlayer   = "release_player"
)

// DefaultEventBuffer is the capacity of the Events channel.
const DefaultEventBuffer = 64

// LibraryOpener returns the loaded native library.
type LibraryOpener func() (ports.NativeLibrary, error)

// EventCallback receives every dispatched event on the event loop goroutine.
type EventCallback func(Event)

// ErrorCallback receives playback errors before the matching event is
// passed to the EventCallback.
type ErrorCallback func(error)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Logger   ports.Logger
	Metrics  *metrics.Collector
	Detector *hwaccel.Detector
	Probe    ports.MediaProbe

	// EventBuffer is the capacity of the Events channel.
	EventBuffer int

	OnEvent EventCallback
	OnError ErrorCallback
}

// SwitchResult is returned by SwitchChannel.
type SwitchResult struct {
	Success          bool
	CleanupPerformed bool
	Err              error
}

// ReleaseResult is returned by Release.
type ReleaseResult struct {
	Success      bool
	Skipped      bool
	CleanupSteps []string
	Err          error
}

// Engine owns one native player. All methods are safe for concurrent use.
type Engine struct {
	id       string
	open     LibraryOpener
	logger   ports.Logger
	metrics  *metrics.Collector
	detector *hwaccel.Detector
	probe    ports.MediaProbe
	policy   *recovery.Policy

	state atomic.Int32

	// initMu serializes Initialize with the teardown part of Release.
	initMu sync.Mutex
	// opMu guards native calls against teardown: calls hold the read lock,
	// teardown holds the write lock.
	opMu sync.RWMutex

	client   *mpv.Client
	renderer *render.Renderer
	loop     *eventLoop
	cfg      config.Configuration
	software atomic.Bool
	// lastFrame is handed out when a frame request races a native call.
	lastFrame atomic.Pointer[image.RGBA]

	lifetime context.Context
	cancel   context.CancelFunc

	cbMu         sync.RWMutex
	onEvent      EventCallback
	onError      ErrorCallback
	events       chan Event
	eventsClosed bool

	pbMu           sync.Mutex
	playback       PlaybackState
	url            string
	errMsg         string
	hints          *ports.ProbeResult
	loaded         bool
	reloadAttempts int
	reloadTimer    *time.Timer
}

// New creates an uninitialized Engine that obtains its native library from open.
func New(open LibraryOpener, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	if opts.Detector == nil {
		opts.Detector = hwaccel.Shared()
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}

	id := uuid.NewString()
	log := opts.Logger.WithComponent("engine").WithFields(ports.Fields{"engine_id": id})
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		id:       id,
		open:     open,
		logger:   log,
		metrics:  opts.Metrics,
		detector: opts.Detector,
		probe:    opts.Probe,
		policy:   recovery.NewPolicy(opts.Logger, opts.Metrics),
		lifetime: ctx,
		cancel:   cancel,
		onEvent:  opts.OnEvent,
		onError:  opts.OnError,
		events:   make(chan Event, opts.EventBuffer),
	}
	e.setState(StateUninitialized)
	return e
}

// ID returns the unique identifier of this engine.
func (e *Engine) ID() string {
	return e.id
}

// State returns the current lifecycle state.
func (e *Engine) State() ResourceState {
	return ResourceState(e.state.Load())
}

// CanPerformOperation reports whether the engine accepts playback
// operations. It is false before Initialize and from the start of Release on.
func (e *Engine) CanPerformOperation() bool {
	return e.State() == StateInitialized
}

// HasLoadedMedia reports whether a file has finished loading at least once.
func (e *Engine) HasLoadedMedia() bool {
	e.pbMu.Lock()
	defer e.pbMu.Unlock()
	return e.loaded
}

// Config returns the configuration the player was initialized with.
func (e *Engine) Config() config.Configuration {
	e.opMu.RLock()
	defer e.opMu.RUnlock()
	return e.cfg
}

// SetEventCallback replaces the event callback. nil removes it.
func (e *Engine) SetEventCallback(cb EventCallback) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.onEvent = cb
}

// SetErrorCallback replaces the error callback. nil removes it.
func (e *Engine) SetErrorCallback(cb ErrorCallback) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.onError = cb
}

// Events returns a channel mirroring every dispatched event. Events are
// dropped when the channel is full. It is closed by Release.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Initialize loads the native library, applies cfg and starts the event
// loop. Calling it on an initialized engine is a no-op. On failure the
// engine stays uninitialized and no native resources are held.
func (e *Engine) Initialize(ctx context.Context, cfg config.Configuration) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	switch e.State() {
	case StateInitialized:
		e.logger.Debug("Player already initialized")
		return nil
	case StateReleasing, StateReleased:
		return mpverr.Resource("player", "player has been released")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lib, err := e.open()
	if err != nil {
		e.policy.HandleError(err, "initialize")
		return err
	}

	cfg = e.prepareConfig(cfg)
	client, err := mpv.New(lib, e.logger)
	if err != nil {
		e.policy.HandleError(err, "initialize")
		return err
	}
	major, minor := client.APIVersion()
	e.logger.Info("Initializing player (client API %d.%d)", major, minor)

	for _, opt := range config.Options(cfg) {
		if err := client.SetOption(opt.Name, opt.Value); err != nil {
			if action := e.policy.HandleError(err, "set_option"); action.Type == recovery.Fatal {
				client.Destroy()
				return err
			}
		}
	}

	if err := client.Initialize(); err != nil {
		client.Destroy()
		e.policy.HandleError(err, "initialize")
		return err
	}

	if cfg.LogLevel != "no" {
		if err := client.RequestLogMessages(cfg.LogLevel); err != nil {
			e.logger.Warn("Native log forwarding unavailable: %s", err.Error())
		}
	}

	renderer := render.New(client, e.logger, e.metrics)
	if err := renderer.Initialize(); err != nil {
		// audio-only playback still works without a render context
		e.policy.HandleError(err, "create_render_context")
	}

	e.opMu.Lock()
	e.client = client
	e.renderer = renderer
	e.cfg = cfg
	e.loop = newEventLoop(client, e.logger, e.dispatch)
	e.opMu.Unlock()

	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitialized)) {
		// Release began while we were initializing; it tears down what we built.
		return mpverr.Resource("player", "player has been released")
	}
	e.loop.start()
	e.metrics.SetState(e.id, resourceStateNames, StateInitialized.String())

	e.logger.WithFields(ports.Fields{
		"hwdec":    cfg.EffectiveHwdec(),
		"vo":       cfg.VideoOutput,
		"ao":       cfg.AudioOutput,
		"rendered": renderer.Ready(),
	}).Info("Player initialized")
	return nil
}

func (e *Engine) prepareConfig(cfg config.Configuration) config.Configuration {
	cfg = config.Validate(cfg)
	if !cfg.HardwareAcceleration {
		return cfg
	}
	if t := hwaccel.TypeFromHwdec(cfg.HwdecMethod); t != hwaccel.None && e.detector.HasFailedBefore(t) {
		e.logger.Warn("Hardware decoding %s failed earlier, using software decoding", t.String())
		cfg.HwdecMethod = "no"
		return config.Validate(cfg)
	}
	if cfg.HwdecMethod != "auto" {
		return cfg
	}
	return e.detector.ConfigurationFor(cfg)
}

// Release tears the player down. The first caller performs the cleanup
// steps; concurrent and later calls return immediately with Skipped set.
// Release is allowed from the uninitialized state.
func (e *Engine) Release(ctx context.Context) ReleaseResult {
	if !e.beginRelease() {
		e.logger.Debug("Release skipped, already %s", e.State().String())
		e.metrics.ObserveRelease(true)
		return ReleaseResult{Success: true, Skipped: true}
	}
	e.metrics.SetState(e.id, resourceStateNames, StateReleasing.String())
	e.logger.Info("Releasing player")

	e.cancel()
	e.cancelReload()

	e.initMu.Lock()
	defer e.initMu.Unlock()
	e.opMu.Lock()
	defer e.opMu.Unlock()

	results := pipeline.RunGuarded(ctx, []pipeline.Step{
		{Name: StepStopPlayback, Run: e.stopPlaybackStep},
		{Name: StepRemoveListeners, Run: e.removeListenersStep},
		{Name: StepReleasePlayer, Run: e.releasePlayerStep},
	})
	for _, r := range results {
		if r.Err != nil {
			e.logger.Warn("Release step %s failed: %s", r.Name, r.Err.Error())
		}
	}

	e.state.Store(int32(StateReleased))
	e.metrics.SetState(e.id, resourceStateNames, StateReleased.String())
	e.metrics.ObserveRelease(false)

	err := pipeline.FirstError(results)
	e.logger.Info("Player released")
	return ReleaseResult{
		Success:      err == nil,
		CleanupSteps: pipeline.Names(results),
		Err:          err,
	}
}

func (e *Engine) beginRelease() bool {
	for {
		s := e.state.Load()
		switch ResourceState(s) {
		case StateReleasing, StateReleased:
			return false
		}
		if e.state.CompareAndSwap(s, int32(StateReleasing)) {
			return true
		}
	}
}

func (e *Engine) stopPlaybackStep(context.Context) error {
	if e.client == nil || !e.client.Initialized() {
		return nil
	}
	return e.client.Execute("stop")
}

func (e *Engine) removeListenersStep(context.Context) error {
	e.cbMu.Lock()
	e.onEvent = nil
	e.onError = nil
	if !e.eventsClosed {
		e.eventsClosed = true
		close(e.events)
	}
	e.cbMu.Unlock()

	if e.client == nil {
		return nil
	}
	var errs []error
	if e.client.Initialized() {
		if err := e.client.RequestLogMessages("no"); err != nil {
			errs = append(errs, err)
		}
	}
	if e.loop != nil && !e.loop.stop(JoinTimeout) {
		errs = append(errs, errors.New("event loop did not stop in time"))
	}
	return errors.Join(errs...)
}

func (e *Engine) releasePlayerStep(context.Context) error {
	if e.renderer != nil {
		e.renderer.Destroy()
	}
	if e.client != nil {
		e.client.Destroy()
	}
	return nil
}

// SwitchChannel stops the current media and loads newURL on the same
// player. The engine stays initialized; only playback is reset.
// An uninitialized engine is rejected with CleanupPerformed false, the
// same as a released one.
func (e *Engine) SwitchChannel(ctx context.Context, oldURL, newURL string) SwitchResult {
	switch e.State() {
	case StateReleasing, StateReleased:
		return SwitchResult{Err: mpverr.Resource("player", "player has been released")}
	case StateUninitialized:
		return SwitchResult{Err: mpverr.Initialization("Player not initialized")}
	}

	e.logger.WithFields(ports.Fields{"from": oldURL, "to": newURL}).Info("Switching channel")
	e.cancelReload()

	results := pipeline.RunGuarded(ctx, []pipeline.Step{{
		Name: StepStopPlayback,
		Run: func(context.Context) error {
			return e.withClient(func(c *mpv.Client) error { return c.Execute("stop") })
		},
	}})
	if err := pipeline.FirstError(results); err != nil {
		e.logger.Warn("Stopping %s failed: %s", oldURL, err.Error())
	}

	err := e.Play(ctx, newURL)
	return SwitchResult{Success: err == nil, CleanupPerformed: true, Err: err}
}

func (e *Engine) setState(s ResourceState) {
	e.state.Store(int32(s))
	e.metrics.SetState(e.id, resourceStateNames, s.String())
}

// withClient runs fn while holding the teardown guard, after checking that
// the engine is initialized.
func (e *Engine) withClient(fn func(c *mpv.Client) error) error {
	e.opMu.RLock()
	defer e.opMu.RUnlock()
	if err := e.checkOperational(); err != nil {
		return err
	}
	return fn(e.client)
}

// tryWithClient is withClient for the event loop goroutine: it gives up
// instead of waiting for a teardown in progress.
func (e *Engine) tryWithClient(fn func(c *mpv.Client) error) error {
	if !e.opMu.TryRLock() {
		return mpverr.Resource("player", "player is being released")
	}
	defer e.opMu.RUnlock()
	if err := e.checkOperational(); err != nil {
		return err
	}
	return fn(e.client)
}

func (e *Engine) checkOperational() error {
	switch e.State() {
	case StateInitialized:
		return nil
	case StateUninitialized:
		return mpverr.Initialization("Player not initialized")
	default:
		return mpverr.Resource("player", "player has been released")
	}
}
