package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/user/mpvplay/pkg/adapters/codecdetect"
	"github.com/user/mpvplay/pkg/adapters/filesink"
	"github.com/user/mpvplay/pkg/adapters/ggrenderer"
	"github.com/user/mpvplay/pkg/adapters/nullsink"
	"github.com/user/mpvplay/pkg/adapters/osfilesystem"
	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/engine"
	"github.com/user/mpvplay/pkg/hwaccel"
	"github.com/user/mpvplay/pkg/metrics"
	"github.com/user/mpvplay/pkg/ports"
	"github.com/user/mpvplay/pkg/summarizer"
)

// errorGrace is how long playback may stay failed while reloads run.
const errorGrace = 10 * time.Second

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	// Required arguments
	URLs []string `arg:"" name:"url" help:"Stream URLs or file paths. Extra URLs are channels to zap through."`

	// Configuration
	Config      string  `short:"c" type:"path" help:"YAML configuration file."`
	Preset      string  `short:"p" default:"default" help:"Preset configuration."`
	Platform    bool    `help:"Apply platform-specific decoder and audio output."`
	Volume      *int    `help:"Initial volume (0-100)."`
	Hwdec       *string `help:"Hardware decoding method (auto, vaapi, videotoolbox, no, ...)."`
	WatchConfig bool    `help:"Reload the configuration file on change and apply the volume."`
	Library     string  `help:"Path to libmpv or a directory containing it (overrides MPV_LIBRARY_PATH)."`

	// Run control
	Duration    time.Duration `short:"d" help:"Stop after this long (0 = until the media ends)."`
	SwitchAfter time.Duration `default:"30s" help:"Time on each channel when several URLs are given."`

	// Snapshots
	SnapshotDir      string        `help:"Directory for frame snapshots and media information."`
	SnapshotInterval time.Duration `default:"5s" help:"Interval between frame snapshots."`
	SnapshotWidth    int           `default:"640" help:"Maximum snapshot width in pixels."`

	// Metrics
	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g., :9090)."`

	// Summary
	Summary string `type:"path" help:"Write a playback summary to this file (Markdown format)."`

	LogFlags
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	log := cmd.newLogger()

	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cmd.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Duration)
		defer cancel()
	}

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	loader := newLoader(log, cmd.Library)

	var sink ports.FrameSink = nullsink.New()
	if cmd.SnapshotDir != "" {
		if err := fs.MkdirAll(cmd.SnapshotDir); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
		sink = filesink.New(cmd.SnapshotDir, fs, renderer, cmd.SnapshotWidth)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	detector := hwaccel.New(fs)

	eng := engine.New(func() (ports.NativeLibrary, error) {
		lib, err := loader.Load()
		if err != nil {
			return nil, err
		}
		return lib, nil
	}, engine.Options{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Detector: detector,
		Probe:    codecdetect.New(),
	})

	started := time.Now()
	var stats sessionStats
	err = cmd.run(ctx, eng, cfg, reg, renderer, sink, log, &stats)

	// Capture the state before release clears it.
	state := eng.PlayerState()
	info, _ := eng.MediaInfo().Get()
	res := eng.Release(context.Background())
	if res.Err != nil {
		log.Warn(l10n.F("Release finished with errors: %s", res.Err.Error()))
	}

	if cmd.Summary != "" {
		summary := summarizer.NewBuilder().
			WithVersion(version, eng.ID()).
			WithMedia(summaryMedia(state.URL, info)).
			WithSession(summarizer.SessionInfo{
				Channels:     cmd.URLs,
				Switches:     stats.switches,
				PlayedFor:    time.Since(started),
				FinalState:   state.Playback.String(),
				ErrorMessage: state.ErrorMessage,
				Snapshots:    stats.snapshots,
			}).
			WithSettings(cmd.summarySettings(eng.Config())).
			WithRelease(res.Skipped, res.CleanupSteps, res.Err).
			WithFallbackStatistics(detector.FallbackStatistics()).
			Build()
		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithTranslator(l10n.T)), fs)
		if werr := writer.Write(cmd.Summary, summary); werr != nil {
			log.Warn(l10n.F("Failed to write summary: %s", werr.Error()))
		} else {
			log.Info(l10n.F("Summary saved to %s", cmd.Summary))
		}
	}
	return err
}

// sessionStats is written by the run goroutines and read after they finish.
type sessionStats struct {
	switches  int
	snapshots int
}

func (cmd *PlayCmd) run(ctx context.Context, eng *engine.Engine, cfg config.Configuration, reg *prometheus.Registry, renderer ports.Renderer, sink ports.FrameSink, log ports.Logger, stats *sessionStats) error {
	if err := eng.Initialize(ctx, cfg); err != nil {
		return err
	}

	log.Info(l10n.F("Playing %s", cmd.URLs[0]))
	if err := eng.Play(ctx, cmd.URLs[0]); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return watchEvents(gctx, eng, sink, log)
	})
	if len(cmd.URLs) > 1 && cmd.SwitchAfter > 0 {
		g.Go(func() error {
			return cmd.zap(gctx, eng, log, &stats.switches)
		})
	}
	if sink.Enabled() && cmd.SnapshotInterval > 0 {
		g.Go(func() error {
			return snapshots(gctx, eng, renderer, sink, cmd.SnapshotInterval, &stats.snapshots)
		})
	}
	if cmd.WatchConfig && cmd.Config != "" {
		g.Go(func() error {
			return config.Watch(gctx, cmd.Config, func(c config.Configuration) {
				log.Info(l10n.F("Configuration reloaded, volume %d", c.Volume))
				if err := eng.SetVolume(c.Volume); err != nil {
					log.Warn(l10n.F("Failed to apply volume: %s", err.Error()))
				}
			}, func(err error) {
				log.Warn(l10n.F("Configuration reload failed: %s", err.Error()))
			})
		})
	}
	if cmd.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cmd.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info(l10n.F("Serving metrics on %s", cmd.MetricsAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if errors.Is(context.Cause(ctx), context.Canceled) {
		log.Warn(l10n.T("Interrupted, shutting down..."))
	}
	return err
}

func summaryMedia(url string, info engine.MediaInfo) summarizer.MediaInfo {
	m := summarizer.MediaInfo{
		URL:      url,
		Title:    info.Metadata["title"],
		HwDec:    info.HwDec,
		Duration: info.Duration,
	}
	if info.HasVideo() {
		m.Codec = info.Video.Codec
		m.Width = info.Video.Width
		m.Height = info.Video.Height
	}
	return m
}

func (cmd *PlayCmd) summarySettings(cfg config.Configuration) summarizer.Settings {
	s := summarizer.Settings{
		Hwdec:          cfg.EffectiveHwdec(),
		Volume:         cfg.Volume,
		CacheSecs:      cfg.CacheSecs,
		NetworkTimeout: cfg.NetworkTimeout,
	}
	if cmd.Config == "" {
		s.Preset = cmd.Preset
	}
	return s
}

// buildConfig creates a Configuration from the file or preset and CLI overrides.
func (cmd *PlayCmd) buildConfig() (config.Configuration, error) {
	var (
		cfg config.Configuration
		err error
	)
	if cmd.Config != "" {
		cfg, err = config.LoadFromFile(cmd.Config)
	} else {
		cfg, err = config.Preset(config.PresetName(cmd.Preset))
	}
	if err != nil {
		return cfg, err
	}

	if cmd.Platform {
		cfg = config.ForCurrentPlatform(cfg)
	}
	if cmd.Volume != nil {
		cfg.Volume = *cmd.Volume
	}
	if cmd.Hwdec != nil {
		cfg.HwdecMethod = *cmd.Hwdec
		cfg.HardwareAcceleration = *cmd.Hwdec != "no"
	}
	return config.Validate(cfg), nil
}

// zap switches through the channel list until ctx is done.
func (cmd *PlayCmd) zap(ctx context.Context, eng *engine.Engine, log ports.Logger, switches *int) error {
	ticker := time.NewTicker(cmd.SwitchAfter)
	defer ticker.Stop()

	current := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next := (current + 1) % len(cmd.URLs)
			res := eng.SwitchChannel(ctx, cmd.URLs[current], cmd.URLs[next])
			if !res.Success {
				log.Warn(l10n.F("Channel switch to %s failed: %s", cmd.URLs[next], res.Err.Error()))
				continue
			}
			current = next
			*switches++
		}
	}
}

// watchEvents logs engine events and returns when playback ends. A failed
// file may still recover through reloads; it is an error only if it stays
// failed for errorGrace.
func watchEvents(ctx context.Context, eng *engine.Engine, sink ports.FrameSink, log ports.Logger) error {
	var grace <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	events := eng.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-grace:
			return errors.New(eng.PlayerState().ErrorMessage)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case engine.FileLoadedEvent:
				if timer != nil {
					timer.Stop()
					grace = nil
				}
				saveMediaInfo(eng, sink, log)
			case engine.EndFileEvent:
				switch ev.Reason {
				case engine.EndFileEOF, engine.EndFileQuit:
					log.Info(l10n.F("Playback finished (%s)", ev.Reason.String()))
					return nil
				case engine.EndFileError:
					if grace == nil {
						timer = time.NewTimer(errorGrace)
						grace = timer.C
					}
				}
			case engine.ShutdownEvent:
				return nil
			}
		}
	}
}

func saveMediaInfo(eng *engine.Engine, sink ports.FrameSink, log ports.Logger) {
	info, ok := eng.MediaInfo().Get()
	if !ok {
		return
	}
	if info.HasVideo() {
		log.Info(l10n.F("Video: %dx%d %s", info.Video.Width, info.Video.Height, info.Video.Codec))
	}
	if !sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		log.Warn(l10n.F("Failed to save media information: %s", err.Error()))
		return
	}
	if err := sink.SaveMediaInfo(data); err != nil {
		log.Warn(l10n.F("Failed to save media information: %s", err.Error()))
	}
}

// snapshots renders the current frame onto a surface every interval and
// stores it in sink.
func snapshots(ctx context.Context, eng *engine.Engine, renderer ports.Renderer, sink ports.FrameSink, interval time.Duration, saved *int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !eng.HasLoadedMedia() {
				continue
			}
			w, h := 1280, 720
			if info, ok := eng.MediaInfo().Get(); ok && info.HasVideo() {
				w, h = info.Video.Width, info.Video.Height
			}
			surface := renderer.CreateSurface(w, h, color.Black)
			eng.RenderToSurface(surface, w, h)
			if err := sink.SaveFrame(index, surface.ToImage()); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			index++
			*saved = index
		}
	}
}
