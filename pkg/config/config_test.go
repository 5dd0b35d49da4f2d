package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if !c.HardwareAcceleration {
		t.Error("expected hardware acceleration enabled by default")
	}
	if c.HwdecMethod != "auto" {
		t.Errorf("expected hwdec auto, got %s", c.HwdecMethod)
	}
	if c.CacheSize != 150000 {
		t.Errorf("expected cache size 150000, got %d", c.CacheSize)
	}
	if c.Volume != 100 {
		t.Errorf("expected volume 100, got %d", c.Volume)
	}
	if Validate(c) != c {
		t.Error("default configuration should already be valid")
	}
}

func TestValidate_Volume(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		c := Default()
		c.Volume = tt.in
		if got := Validate(c).Volume; got != tt.want {
			t.Errorf("Validate(volume=%d).Volume = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidate_ClampingIsTotal(t *testing.T) {
	inputs := []int{math.MinInt, -1000000, -1, 0, 1, 4, 5, 59, 60, 61, 299, 300, 301, 999, 1000, 1001, 999999, 1000000, 1000001, math.MaxInt}

	for _, x := range inputs {
		c := Validate(Configuration{
			CacheSize:        x,
			CacheSecs:        x,
			DemuxerReadahead: x,
			NetworkTimeout:   x,
			Volume:           x,
		})

		if c.CacheSize < MinCacheSize || c.CacheSize > MaxCacheSize {
			t.Errorf("cacheSize %d -> %d out of range", x, c.CacheSize)
		}
		if c.CacheSecs < MinCacheSecs || c.CacheSecs > MaxCacheSecs {
			t.Errorf("cacheSecs %d -> %d out of range", x, c.CacheSecs)
		}
		if c.DemuxerReadahead < MinDemuxerReadahead || c.DemuxerReadahead > MaxDemuxerReadahead {
			t.Errorf("demuxerReadahead %d -> %d out of range", x, c.DemuxerReadahead)
		}
		if c.NetworkTimeout < MinNetworkTimeout || c.NetworkTimeout > MaxNetworkTimeout {
			t.Errorf("networkTimeout %d -> %d out of range", x, c.NetworkTimeout)
		}
		if c.Volume < MinVolume || c.Volume > MaxVolume {
			t.Errorf("volume %d -> %d out of range", x, c.Volume)
		}
	}
}

func TestValidate_Names(t *testing.T) {
	tests := []struct {
		name      string
		accel     bool
		method    string
		level     string
		wantHwdec string
		wantLevel string
	}{
		{"valid", true, "vaapi", "debug", "vaapi", "debug"},
		{"invalid method", true, "quantum", "info", "auto", "info"},
		{"empty method", true, "", "info", "auto", "info"},
		{"invalid level", true, "auto", "loud", "auto", "info"},
		{"accel disabled", false, "vaapi", "warn", "no", "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.HardwareAcceleration = tt.accel
			c.HwdecMethod = tt.method
			c.LogLevel = tt.level

			got := Validate(c)
			if got.HwdecMethod != tt.wantHwdec {
				t.Errorf("hwdec = %s, want %s", got.HwdecMethod, tt.wantHwdec)
			}
			if got.LogLevel != tt.wantLevel {
				t.Errorf("logLevel = %s, want %s", got.LogLevel, tt.wantLevel)
			}
		})
	}
}

func TestValidate_EmptyStrings(t *testing.T) {
	got := Validate(Configuration{})
	if got.VideoOutput != DefaultVideoOutput || got.AudioOutput != DefaultAudioOutput || got.UserAgent != DefaultUserAgent {
		t.Errorf("empty selectors should get defaults, got %+v", got)
	}
	// zero value disables acceleration
	if got.HwdecMethod != "no" {
		t.Errorf("expected hwdec no, got %s", got.HwdecMethod)
	}
}

func TestForPlatform(t *testing.T) {
	tests := []struct {
		goos      string
		wantHwdec string
		wantAudio string
	}{
		{"darwin", "videotoolbox", "coreaudio"},
		{"windows", "d3d11va", "wasapi"},
		{"linux", "vaapi", "pulse"},
		{"plan9", "auto", "auto"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			base := Default()
			base.CacheSize = 12345
			got := ForPlatform(base, tt.goos)
			if got.HwdecMethod != tt.wantHwdec {
				t.Errorf("hwdec = %s, want %s", got.HwdecMethod, tt.wantHwdec)
			}
			if got.AudioOutput != tt.wantAudio {
				t.Errorf("audio = %s, want %s", got.AudioOutput, tt.wantAudio)
			}
			if got.CacheSize != 12345 {
				t.Error("platform overlay must not touch other fields")
			}
		})
	}

	got := ForPlatform(SoftwareOnly(), "linux")
	if got.HwdecMethod != "no" {
		t.Errorf("disabled acceleration should stay off, got %s", got.HwdecMethod)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		c, err := Preset(PresetName(name))
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if Validate(c) != c {
			t.Errorf("preset %s is not valid as defined", name)
		}
	}

	live := LiveStreaming()
	if live.CacheSize != 50000 || live.CacheSecs != 5 || live.DemuxerReadahead != 2 || live.NetworkTimeout != 15 {
		t.Errorf("unexpected live preset %+v", live)
	}
	vod := VOD()
	if vod.CacheSize != 300000 || vod.NetworkTimeout != 60 {
		t.Errorf("unexpected vod preset %+v", vod)
	}
	if SoftwareOnly().EffectiveHwdec() != "no" {
		t.Error("software-only must disable hwdec")
	}

	if _, err := Preset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestOptions(t *testing.T) {
	c := Default()
	c.CacheSize = 2000
	c.KeepOpen = true

	opts := Options(c)
	got := make(map[string]string)
	for _, o := range opts {
		got[o.Name] = o.Value
	}

	if opts[0].Name != "vo" {
		t.Errorf("first option should be vo, got %s", opts[0].Name)
	}
	if got["demuxer-max-bytes"] != "2048000" {
		t.Errorf("demuxer-max-bytes = %s", got["demuxer-max-bytes"])
	}
	if got["keep-open"] != "yes" {
		t.Errorf("keep-open = %s", got["keep-open"])
	}
	if got["hwdec"] != "auto" {
		t.Errorf("hwdec = %s", got["hwdec"])
	}
	if got["user-agent"] != DefaultUserAgent {
		t.Errorf("user-agent = %s", got["user-agent"])
	}
}

func TestBuilder(t *testing.T) {
	c := NewBuilder().
		WithVolume(150).
		WithCacheSize(10).
		WithHwdecMethod("bogus").
		WithLogLevel("trace").
		Build()

	if c.Volume != 100 {
		t.Errorf("expected clamped volume, got %d", c.Volume)
	}
	if c.CacheSize != MinCacheSize {
		t.Errorf("expected clamped cache size, got %d", c.CacheSize)
	}
	if c.HwdecMethod != "auto" {
		t.Errorf("expected hwdec auto, got %s", c.HwdecMethod)
	}
	if c.LogLevel != "trace" {
		t.Errorf("expected trace, got %s", c.LogLevel)
	}

	c = NewBuilderFrom(VOD()).WithHardwareAcceleration(false).Build()
	if c.HwdecMethod != "no" || c.CacheSize != 300000 {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestParse(t *testing.T) {
	doc := []byte(`
preset: live-streaming
playback:
  volume: 250
  hwdec: vdpau
  log_level: chatty
`)
	c, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.CacheSize != 50000 {
		t.Errorf("expected preset cache size, got %d", c.CacheSize)
	}
	if c.Volume != 100 {
		t.Errorf("expected clamped volume, got %d", c.Volume)
	}
	if c.HwdecMethod != "vdpau" {
		t.Errorf("expected vdpau, got %s", c.HwdecMethod)
	}
	if c.LogLevel != "info" {
		t.Errorf("expected info, got %s", c.LogLevel)
	}

	if _, err := Parse([]byte("preset: nonsense\n")); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := Parse([]byte("playback: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")

	data, err := Marshal(VOD())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c != VOD() {
		t.Errorf("round trip mismatch: %+v", c)
	}

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	if err := os.WriteFile(path, []byte("playback:\n  volume: 10\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Configuration, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Configuration) { got <- c }, nil)
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case c := <-got:
			if c.Volume != 42 {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case err := <-done:
			t.Skipf("watcher unavailable: %v", err)
		case <-ticker.C:
			_ = os.WriteFile(path, []byte("playback:\n  volume: 42\n"), 0644)
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}
