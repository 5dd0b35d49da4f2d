// Package main provides the CLI entry point for mpvplay.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/mpvplay/pkg/adapters/libmpv"
	"github.com/user/mpvplay/pkg/adapters/logger"
	"github.com/user/mpvplay/pkg/adapters/osfilesystem"
	"github.com/user/mpvplay/pkg/config"
	"github.com/user/mpvplay/pkg/hwaccel"
	"github.com/user/mpvplay/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Probe   ProbeCmd   `cmd:"" help:"Locate libmpv and report which strategy loaded it."`
	Hwinfo  HwinfoCmd  `cmd:"" help:"Show detected hardware decoding support."`
	Play    PlayCmd    `cmd:"" help:"Play a stream or file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// LogFlags are shared by every subcommand that talks to the native library.
type LogFlags struct {
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	JSONLog  bool   `help:"Write structured JSON logs."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

func (f LogFlags) newLogger() ports.Logger {
	switch {
	case f.Quiet:
		return logger.NewNoop()
	case f.JSONLog:
		return logger.NewJSON(logger.JSONConfig{
			Level:   ports.ParseLogLevel(f.LogLevel),
			Version: version,
		})
	default:
		return logger.NewConsole(ports.ParseLogLevel(f.LogLevel))
	}
}

// ProbeCmd runs the library loader and prints diagnostics.
type ProbeCmd struct {
	LogFlags
	Library string `help:"Path to libmpv or a directory containing it (overrides MPV_LIBRARY_PATH)."`
}

// HwinfoCmd prints the hardware decoding detection result.
type HwinfoCmd struct {
	Preset string `short:"p" default:"default" help:"Preset whose hwdec setting is resolved."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("mpvplay"),
		kong.Description(l10n.T("Play IPTV streams through libmpv.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// newLoader creates a loader whose environment strategy prefers library.
func newLoader(log ports.Logger, library string) *libmpv.Loader {
	env := libmpv.Environment{FileSystem: osfilesystem.New()}
	if library != "" {
		env.Getenv = func(key string) string {
			if key == libmpv.EnvLibraryPath {
				return library
			}
			return os.Getenv(key)
		}
	}
	return libmpv.NewLoader(log, env)
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	log := cmd.newLogger()
	loader := newLoader(log, cmd.Library)

	fmt.Println(l10n.F("Strategies: %s", strings.Join(loader.Strategies(), ", ")))
	lib, err := loader.Load()
	if err != nil {
		return err
	}

	v := lib.ClientAPIVersion()
	fmt.Println(l10n.F("Loaded by: %s", loader.LoadedBy()))
	fmt.Println(l10n.F("Path: %s", lib.Path()))
	fmt.Println(l10n.F("Client API: %d.%d", v>>16, v&0xffff))
	return nil
}

// Run executes the hwinfo command.
func (cmd *HwinfoCmd) Run() error {
	cfg, err := config.Preset(config.PresetName(cmd.Preset))
	if err != nil {
		return fmt.Errorf("%s (%s)", err, strings.Join(config.PresetNames(), ", "))
	}

	detector := hwaccel.New(osfilesystem.New())
	hw := detector.Detect()
	resolved := detector.ConfigurationFor(cfg)

	fmt.Println(l10n.F("Detected: %s", hw.Type.String()))
	fmt.Println(l10n.F("Available: %t", hw.Available))
	if hw.DeviceName != "" {
		fmt.Println(l10n.F("Device: %s", hw.DeviceName))
	}
	fmt.Println(l10n.F("hwdec for %s preset: %s", cmd.Preset, resolved.EffectiveHwdec()))
	fmt.Print(detector.FallbackStatistics())
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("mpvplay (Go) version %s", version))
	return nil
}
