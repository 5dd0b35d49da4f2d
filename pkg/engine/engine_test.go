package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/hwaccel"
	"github.com/user/mpvplay/pkg/metrics"
	"github.com/user/mpvplay/pkg/mocks"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 3 * time.Second

type harness struct {
	engine   *Engine
	fake     *mocks.FakeMPV
	metrics  *metrics.Collector
	logger   *mocks.Logger
	detector *hwaccel.Detector
}

func newHarness(t *testing.T, configure ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		fake:     mocks.NewFakeMPV(),
		metrics:  metrics.New(prometheus.NewRegistry()),
		logger:   mocks.NewLogger(),
		detector: hwaccel.NewForPlatform(mocks.NewFileSystem(), "linux"),
	}
	opts := Options{Logger: h.logger, Metrics: h.metrics, Detector: h.detector}
	for _, fn := range configure {
		fn(&opts)
	}
	h.engine = New(func() (ports.NativeLibrary, error) { return h.fake, nil }, opts)
	t.Cleanup(func() { h.engine.Release(context.Background()) })
	return h
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Initialize(context.Background(), config.Default()))
}

func (h *harness) waitPlayback(t *testing.T, want PlaybackState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.engine.PlayerState().Playback == want
	}, waitFor, 10*time.Millisecond, "playback state never became %s", want)
}

func TestInitialize_AppliesOptionsBeforeInit(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.engine.CanPerformOperation())

	h.init(t)

	assert.Equal(t, StateInitialized, h.engine.State())
	assert.True(t, h.engine.CanPerformOperation())

	initAt := h.fake.IndexOf("initialize")
	require.GreaterOrEqual(t, initAt, 0)
	assert.Less(t, h.fake.IndexOf("option:vo="), initAt)
	assert.Less(t, h.fake.IndexOf("option:keep-open="), initAt)
	assert.Greater(t, h.fake.IndexOf("render_create"), initAt)
	assert.Greater(t, h.fake.IndexOf("log:info"), initAt)

	vo, _ := h.fake.Option("vo")
	assert.Equal(t, "libmpv", vo)
}

func TestInitialize_SecondCallIsNoop(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.init(t)

	assert.Equal(t, 1, h.fake.CallCount("create"))
	assert.Equal(t, 1, h.fake.CallCount("initialize"))
}

func TestInitialize_LibraryMissing(t *testing.T) {
	e := New(func() (ports.NativeLibrary, error) {
		return nil, mpverr.LibraryNotFound("libmpv could not be loaded")
	}, Options{Detector: hwaccel.NewForPlatform(mocks.NewFileSystem(), "linux")})
	defer e.Release(context.Background())

	err := e.Initialize(context.Background(), config.Default())

	require.Error(t, err)
	assert.Equal(t, mpverr.KindLibraryNotFound, mpverr.KindOf(err))
	assert.Equal(t, StateUninitialized, e.State())
}

func TestInitialize_NativeFailureLeavesEngineUninitialized(t *testing.T) {
	h := newHarness(t)
	h.fake.InitializeCode = mpverr.CodeGeneric

	err := h.engine.Initialize(context.Background(), config.Default())

	require.Error(t, err)
	assert.Equal(t, mpverr.KindInitialization, mpverr.KindOf(err))
	assert.Equal(t, StateUninitialized, h.engine.State())
	assert.False(t, h.engine.CanPerformOperation())
	assert.Equal(t, 1, h.fake.CallCount("destroy"), "the half-built player must be destroyed")
}

func TestInitialize_RejectedOptionFallsBackToDefault(t *testing.T) {
	h := newHarness(t)
	h.fake.OptionCodes["hls-bitrate"] = mpverr.CodeOptionNotFound

	h.init(t)

	assert.Equal(t, StateInitialized, h.engine.State())
	_, set := h.fake.Option("hls-bitrate")
	assert.False(t, set)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Errors().WithLabelValues("configuration", "use_default")))
}

func TestInitialize_SkipsBackendThatFailedBefore(t *testing.T) {
	h := newHarness(t)
	h.detector.RecordFailure(hwaccel.VAAPI, "vo init failed")

	cfg := config.NewBuilder().WithHwdecMethod("vaapi").Build()
	require.NoError(t, h.engine.Initialize(context.Background(), cfg))

	hwdec, _ := h.fake.Option("hwdec")
	assert.Equal(t, "no", hwdec)
	assert.Equal(t, "no", h.engine.Config().EffectiveHwdec())
}

func TestInitialize_KeepsExplicitHwdecMethod(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/dev/dri/renderD128", nil)
	h := newHarness(t, func(o *Options) { o.Detector = hwaccel.NewForPlatform(fs, "linux") })

	cfg := config.NewBuilder().WithHwdecMethod("vdpau").Build()
	require.NoError(t, h.engine.Initialize(context.Background(), cfg))

	hwdec, _ := h.fake.Option("hwdec")
	assert.Equal(t, "vdpau", hwdec)
	assert.Equal(t, "vdpau", h.engine.Config().EffectiveHwdec())
}

func TestInitialize_ResolvesAutoToDetectedBackend(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/dev/dri/renderD128", nil)
	h := newHarness(t, func(o *Options) { o.Detector = hwaccel.NewForPlatform(fs, "linux") })

	h.init(t)

	hwdec, _ := h.fake.Option("hwdec")
	assert.Equal(t, "vaapi", hwdec)
}

func TestInitialize_AfterReleaseFails(t *testing.T) {
	h := newHarness(t)
	h.engine.Release(context.Background())

	err := h.engine.Initialize(context.Background(), config.Default())

	assert.Equal(t, mpverr.KindResource, mpverr.KindOf(err))
	assert.Zero(t, h.fake.CallCount("create"))
}

func TestRelease_ReportsStepsOnce(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	first := h.engine.Release(context.Background())
	second := h.engine.Release(context.Background())

	assert.True(t, first.Success)
	assert.False(t, first.Skipped)
	assert.Equal(t, []string{StepStopPlayback, StepRemoveListeners, StepReleasePlayer}, first.CleanupSteps)
	assert.NoError(t, first.Err)

	assert.True(t, second.Skipped)
	assert.Empty(t, second.CleanupSteps)

	assert.Equal(t, StateReleased, h.engine.State())
	assert.False(t, h.engine.CanPerformOperation())
	assert.Equal(t, 1, h.fake.CallCount("destroy"))
	assert.Equal(t, 1, h.fake.CallCount("render_free"))
	assert.Zero(t, h.fake.LiveRenderContexts())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Releases().WithLabelValues(metrics.ReleasePerformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Releases().WithLabelValues(metrics.ReleaseSkipped)))
}

func TestRelease_ConcurrentCallersPerformCleanupOnce(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	const callers = 16
	results := make([]ReleaseResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.engine.Release(context.Background())
		}(i)
	}
	wg.Wait()

	performed := 0
	for _, r := range results {
		if !r.Skipped {
			performed++
		}
	}
	assert.Equal(t, 1, performed)
	assert.Equal(t, 1, h.fake.CallCount("destroy"))
	assert.Zero(t, h.fake.UseAfterDestroyCount())
}

func TestRelease_CleanupOrder(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	h.engine.Release(context.Background())

	stop := h.fake.IndexOf("command:stop")
	logsOff := h.fake.IndexOf("log:no")
	renderFree := h.fake.IndexOf("render_free")
	destroy := h.fake.IndexOf("destroy")

	require.GreaterOrEqual(t, stop, 0)
	assert.Less(t, stop, logsOff)
	assert.Less(t, logsOff, renderFree)
	assert.Less(t, renderFree, destroy, "the render context is freed before the player")
}

func TestRelease_FromUninitialized(t *testing.T) {
	h := newHarness(t)

	r := h.engine.Release(context.Background())

	assert.True(t, r.Success)
	assert.False(t, r.Skipped)
	assert.Len(t, r.CleanupSteps, 3)
	assert.Equal(t, StateReleased, h.engine.State())
	assert.Zero(t, h.fake.CallCount("destroy"))
}

func TestRelease_ClosesEventChannel(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	h.engine.Release(context.Background())

	done := make(chan struct{})
	go func() {
		for range h.engine.Events() {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("event channel was not closed")
	}
}

func TestRelease_WhileRendering(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.SetProperty("width", 64.0)
	h.fake.SetProperty("height", 36.0)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				h.engine.AcquireFrame()
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	h.engine.Release(context.Background())
	cancel()
	wg.Wait()

	assert.Zero(t, h.fake.UseAfterDestroyCount())
	assert.True(t, h.engine.AcquireFrame().IsAbsent())
}

func TestPlay_EmptyURL(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	err := h.engine.Play(context.Background(), "  ")

	e, ok := mpverr.As(err)
	require.True(t, ok)
	assert.Equal(t, mpverr.KindPlayback, e.Kind)
	assert.Contains(t, e.Error(), "Invalid playback URL")
	assert.Zero(t, h.fake.CallCount("command:loadfile"))
}

func TestPlay_RequiresInitializedEngine(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Play(context.Background(), "http://example.com/live.m3u8")
	assert.Equal(t, mpverr.KindInitialization, mpverr.KindOf(err))

	h.init(t)
	h.engine.Release(context.Background())

	err = h.engine.Play(context.Background(), "http://example.com/live.m3u8")
	assert.Equal(t, mpverr.KindResource, mpverr.KindOf(err))
	assert.Zero(t, h.fake.CallCount("command:loadfile"))
}

func TestPlay_EventsDriveState(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	require.NoError(t, h.engine.Play(context.Background(), "http://example.com/live.m3u8"))
	h.waitPlayback(t, PlaybackPlaying)

	assert.True(t, h.engine.HasLoadedMedia())
	assert.Equal(t, "http://example.com/live.m3u8", h.engine.PlayerState().URL)
	assert.Equal(t, 1, h.fake.CallCount("command:loadfile http://example.com/live.m3u8 replace"))

	var types []string
	for len(types) < 3 {
		select {
		case ev := <-h.engine.Events():
			types = append(types, ev.Type())
		case <-time.After(waitFor):
			t.Fatalf("only received %v", types)
		}
	}
	assert.Equal(t, []string{"start_file", "file_loaded", "video_reconfig"}, types)
}

func TestPlay_RetriesLocalLoadingFailure(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.FailCommand("loadfile", mpverr.CodeLoadingFailed, 1)

	require.NoError(t, h.engine.Play(context.Background(), "/media/channel.ts"))

	assert.Equal(t, 2, h.fake.CallCount("command:loadfile"))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Retries()))
}

func TestPlay_GivesUpAfterRetries(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.FailCommand("loadfile", mpverr.CodeLoadingFailed, 10)

	err := h.engine.Play(context.Background(), "/media/channel.ts")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, 3, h.fake.CallCount("command:loadfile"))
	assert.Equal(t, PlaybackError, h.engine.PlayerState().Playback)
}

func TestPlay_FormatErrorIsNotRetried(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.FailCommand("loadfile", mpverr.CodeUnknownFormat, 1)

	err := h.engine.Play(context.Background(), "/media/clip.xyz")

	require.Error(t, err)
	assert.Equal(t, 1, h.fake.CallCount("command:loadfile"))
}

func TestPlay_ProbeFailureRejectsLocalFile(t *testing.T) {
	probe := &stubProbe{err: errors.New("no moov box")}
	h := newHarness(t, func(o *Options) { o.Probe = probe })
	h.init(t)

	err := h.engine.Play(context.Background(), "file:///media/broken.mp4")

	e, ok := mpverr.As(err)
	require.True(t, ok)
	assert.Equal(t, mpverr.CodeUnknownFormat, e.Code)
	assert.Equal(t, []string{"/media/broken.mp4"}, probe.paths)
	assert.Zero(t, h.fake.CallCount("command:loadfile"))
}

func TestPlay_RemoteURLIsNotProbed(t *testing.T) {
	probe := &stubProbe{}
	h := newHarness(t, func(o *Options) { o.Probe = probe })
	h.init(t)

	require.NoError(t, h.engine.Play(context.Background(), "https://example.com/a.mp4"))
	assert.Empty(t, probe.paths)
}

func TestDispatch_ErrorCallbackRunsBeforeEventCallback(t *testing.T) {
	var mu sync.Mutex
	var order []string
	var gotErr error
	h := newHarness(t, func(o *Options) {
		o.OnError = func(err error) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, "error")
			gotErr = err
		}
		o.OnEvent = func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, "event:"+ev.Type())
		}
	})
	h.init(t)

	h.fake.Push(ports.RawEvent{ID: ports.EventCommandReply, Error: mpverr.CodeCommand})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, waitFor, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"error", "event:error"}, order)
	e, ok := mpverr.As(gotErr)
	require.True(t, ok)
	assert.Equal(t, mpverr.KindPlayback, e.Kind)
	assert.Equal(t, mpverr.CodeCommand, e.Code)
}

func TestDispatch_PanickingCallbackDoesNotStopLoop(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	h := newHarness(t, func(o *Options) {
		o.OnEvent = func(ev Event) {
			mu.Lock()
			seen = append(seen, ev.Type())
			mu.Unlock()
			if _, ok := ev.(IdleEvent); ok {
				panic("listener bug")
			}
		}
	})
	h.init(t)

	h.fake.Push(ports.RawEvent{ID: ports.EventIdle})
	h.fake.Push(ports.RawEvent{ID: ports.EventSeek})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, waitFor, 10*time.Millisecond)

	var logged bool
	for _, e := range h.logger.EntriesAt(ports.LevelError) {
		if strings.Contains(e.Message, "Event callback panicked: listener bug") {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestDispatch_ForwardsNativeLogs(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	h.fake.Push(ports.RawEvent{ID: ports.EventLogMessage, Log: &ports.RawLogMessage{
		Prefix: "ffmpeg", Level: "warn", Text: "corrupt packet\n",
	}})

	require.Eventually(t, func() bool {
		for _, e := range h.logger.EntriesAt(ports.LevelWarn) {
			if e.Message == "ffmpeg: corrupt packet" {
				return e.Fields["native_level"] == "warn"
			}
		}
		return false
	}, waitFor, 10*time.Millisecond)
}

func TestEndFileError_FatalFormatSetsErrorState(t *testing.T) {
	h := newHarness(t)
	h.fake.LoadEvents = func(string) []ports.RawEvent {
		return []ports.RawEvent{{ID: ports.EventEndFile, EndFile: &ports.RawEndFile{Reason: 4, Error: mpverr.CodeUnknownFormat}}}
	}
	h.init(t)

	require.NoError(t, h.engine.Play(context.Background(), "/media/clip.bin"))
	h.waitPlayback(t, PlaybackError)

	assert.Equal(t, "Playback failed: unknown format (code: -17)", h.engine.PlayerState().ErrorMessage)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.fake.CallCount("command:loadfile"), "format errors are not reloaded")
}

func TestEndFileError_LoadingFailureReloads(t *testing.T) {
	h := newHarness(t)
	var mu sync.Mutex
	loads := 0
	h.fake.LoadEvents = func(string) []ports.RawEvent {
		mu.Lock()
		defer mu.Unlock()
		loads++
		if loads == 1 {
			return []ports.RawEvent{{ID: ports.EventEndFile, EndFile: &ports.RawEndFile{Reason: 4, Error: mpverr.CodeLoadingFailed}}}
		}
		return []ports.RawEvent{{ID: ports.EventFileLoaded}}
	}
	h.init(t)

	require.NoError(t, h.engine.Play(context.Background(), "/media/channel.ts"))

	require.Eventually(t, func() bool {
		return h.fake.CallCount("command:loadfile") == 2
	}, waitFor, 10*time.Millisecond)
	h.waitPlayback(t, PlaybackPlaying)
	assert.Empty(t, h.engine.PlayerState().ErrorMessage)
}

func TestEndFileError_HardwareFailureFallsBackToSoftware(t *testing.T) {
	h := newHarness(t)
	var mu sync.Mutex
	loads := 0
	h.fake.LoadEvents = func(string) []ports.RawEvent {
		mu.Lock()
		defer mu.Unlock()
		loads++
		if loads == 1 {
			return []ports.RawEvent{{ID: ports.EventEndFile, EndFile: &ports.RawEndFile{Reason: 4, Error: mpverr.CodeVOInitFailed}}}
		}
		return []ports.RawEvent{{ID: ports.EventFileLoaded}}
	}
	cfg := config.NewBuilder().WithHwdecMethod("vaapi").Build()
	require.NoError(t, h.engine.Initialize(context.Background(), cfg))
	h.fake.SetProperty("hwdec-current", "vaapi-copy")

	require.NoError(t, h.engine.Play(context.Background(), "http://example.com/live.m3u8"))

	h.waitPlayback(t, PlaybackPlaying)
	require.Eventually(t, func() bool {
		return h.fake.CallCount("command:loadfile") == 2
	}, waitFor, 10*time.Millisecond)

	hwdec, _ := h.fake.Property("hwdec")
	assert.Equal(t, "no", hwdec)
	assert.True(t, h.detector.HasFailedBefore(hwaccel.VAAPI))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Fallbacks().WithLabelValues("vaapi")))
}

func TestSwitchChannel_ReusesPlayer(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.engine.Play(context.Background(), "http://example.com/one.m3u8"))

	r := h.engine.SwitchChannel(context.Background(), "http://example.com/one.m3u8", "http://example.com/two.m3u8")

	assert.True(t, r.Success)
	assert.True(t, r.CleanupPerformed)
	assert.NoError(t, r.Err)
	assert.Equal(t, StateInitialized, h.engine.State())
	assert.Equal(t, 1, h.fake.CallCount("create"))
	assert.Equal(t, 1, h.fake.CallCount("command:stop"))
	assert.Equal(t, 1, h.fake.CallCount("command:loadfile http://example.com/two.m3u8"))
	assert.Zero(t, h.fake.CallCount("destroy"))
	assert.Equal(t, "http://example.com/two.m3u8", h.engine.PlayerState().URL)
}

func TestSwitchChannel_RejectedAfterRelease(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.engine.Release(context.Background())

	r := h.engine.SwitchChannel(context.Background(), "a", "http://example.com/two.m3u8")

	assert.False(t, r.Success)
	assert.False(t, r.CleanupPerformed)
	assert.Equal(t, mpverr.KindResource, mpverr.KindOf(r.Err))
}

func TestSwitchChannel_LoadFailureStillReportsCleanup(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.FailCommand("loadfile", mpverr.CodeUnsupported, 1)

	r := h.engine.SwitchChannel(context.Background(), "", "/media/clip.xyz")

	assert.False(t, r.Success)
	assert.True(t, r.CleanupPerformed)
	assert.Error(t, r.Err)
}

func TestControls(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.engine.Play(context.Background(), "http://example.com/live.m3u8"))
	h.waitPlayback(t, PlaybackPlaying)

	require.NoError(t, h.engine.Pause())
	paused, _ := h.fake.Property("pause")
	assert.Equal(t, true, paused)
	assert.True(t, h.engine.IsPaused())
	assert.Equal(t, PlaybackPaused, h.engine.PlayerState().Playback)

	require.NoError(t, h.engine.Resume())
	assert.False(t, h.engine.IsPaused())
	assert.Equal(t, PlaybackPlaying, h.engine.PlayerState().Playback)

	require.NoError(t, h.engine.Seek(12.5))
	assert.Equal(t, 1, h.fake.CallCount("command:seek 12.5 absolute"))

	require.NoError(t, h.engine.Stop())
	assert.Equal(t, 1, h.fake.CallCount("command:stop"))
}

func TestSetVolume_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want float64
	}{
		{150, 100},
		{-5, 0},
		{42, 42},
	}
	h := newHarness(t)
	h.init(t)
	for _, tt := range tests {
		require.NoError(t, h.engine.SetVolume(tt.in))
		v, _ := h.fake.Property("volume")
		assert.Equal(t, tt.want, v)
		assert.Equal(t, int(tt.want), h.engine.Volume().MustGet())
	}
}

func TestControls_PropertyFailureIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.PropertyCodes["pause"] = mpverr.CodePropertyUnavailable

	assert.NoError(t, h.engine.Pause())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Errors().WithLabelValues("property", "ignore")))
}

func TestControls_RequireInitializedEngine(t *testing.T) {
	h := newHarness(t)

	assert.Error(t, h.engine.Pause())
	assert.Error(t, h.engine.SetVolume(10))
	assert.True(t, h.engine.Position().IsAbsent())
	assert.Zero(t, h.fake.CallCount("set:"))
}

func TestMediaInfo(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	assert.True(t, h.engine.MediaInfo().IsAbsent())

	h.fake.SetProperty("width", int64(1920))
	h.fake.SetProperty("height", int64(1080))
	h.fake.SetProperty("video-codec", "h264")
	h.fake.SetProperty("audio-params/samplerate", int64(48000))
	h.fake.SetProperty("audio-params/channel-count", int64(2))
	h.fake.SetProperty("media-title", "News 24")
	require.NoError(t, h.engine.Play(context.Background(), "http://example.com/live.m3u8"))
	h.waitPlayback(t, PlaybackPlaying)

	info, ok := h.engine.MediaInfo().Get()
	require.True(t, ok)
	assert.Equal(t, "http://example.com/live.m3u8", info.URL)
	assert.True(t, info.HasVideo())
	assert.Equal(t, "h264", info.Video.Codec)
	assert.True(t, info.HasAudio())
	assert.Equal(t, 48000, info.Audio.SampleRate)
	assert.Equal(t, 2, info.Audio.Channels)
	assert.False(t, info.IsSeekable(), "live streams have no duration")
	assert.Equal(t, "News 24", info.Metadata["title"])
}

func TestMediaInfo_UsesProbeHints(t *testing.T) {
	probe := &stubProbe{res: ports.ProbeResult{Codec: "hevc", Width: 3840, Height: 2160, HasAudio: true}}
	h := newHarness(t, func(o *Options) { o.Probe = probe })
	h.init(t)
	h.fake.SetProperty("duration", 90.0)

	require.NoError(t, h.engine.Play(context.Background(), "/media/movie.mp4"))
	h.waitPlayback(t, PlaybackPlaying)

	info := h.engine.MediaInfo().MustGet()
	assert.Equal(t, 3840, info.Video.Width)
	assert.Equal(t, "hevc", info.Video.Codec)
	assert.True(t, info.HasAudio())
	assert.Equal(t, 90*time.Second, info.Duration)
	assert.True(t, info.IsSeekable())
}

func TestAcquireFrame(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.engine.AcquireFrame().IsAbsent())
	h.init(t)

	h.fake.SetProperty("width", 32.0)
	h.fake.SetProperty("height", 18.0)

	frame, ok := h.engine.AcquireFrame().Get()
	require.True(t, ok)
	assert.Equal(t, 32, frame.Bounds().Dx())
	assert.InDelta(t, 16.0/9.0, h.engine.AspectRatio(), 0.001)

	surface := mocks.NewSurface(64, 64)
	h.engine.RenderToSurface(surface, 64, 64)
	assert.Len(t, surface.Draws, 1)
}

func TestAcquireFrame_BusyPlayerReturnsPreviousFrame(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.SetProperty("width", 8.0)
	h.fake.SetProperty("height", 8.0)
	first := h.engine.AcquireFrame().MustGet()

	h.engine.opMu.Lock()
	busy, ok := h.engine.AcquireFrame().Get()
	h.engine.opMu.Unlock()

	require.True(t, ok, "a busy player must not blank the display")
	assert.Same(t, first, busy)
}

func TestAcquireFrame_NoneAfterRelease(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.fake.SetProperty("width", 8.0)
	h.fake.SetProperty("height", 8.0)
	require.True(t, h.engine.AcquireFrame().IsPresent())

	h.engine.Release(context.Background())

	assert.True(t, h.engine.AcquireFrame().IsAbsent())
}

func TestMetricsTrackLifecycleState(t *testing.T) {
	h := newHarness(t)
	state := func(s ResourceState) float64 {
		return testutil.ToFloat64(h.metrics.State().WithLabelValues(h.engine.ID(), s.String()))
	}

	assert.Equal(t, 1.0, state(StateUninitialized))
	h.init(t)
	assert.Equal(t, 1.0, state(StateInitialized))
	assert.Equal(t, 0.0, state(StateUninitialized))
	h.engine.Release(context.Background())
	assert.Equal(t, 1.0, state(StateReleased))
}

type stubProbe struct {
	mu    sync.Mutex
	res   ports.ProbeResult
	err   error
	paths []string
}

func (p *stubProbe) CanProbe(path string) bool {
	return strings.HasSuffix(path, ".mp4")
}

func (p *stubProbe) Probe(path string) (ports.ProbeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return p.res, p.err
}
