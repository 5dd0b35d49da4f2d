package libmpv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/user/mpvplay/pkg/adapters/logger"
	"github.com/user/mpvplay/pkg/adapters/osfilesystem"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// Loader runs the strategy chain once and memoizes the outcome, success or
// failure, until Reset is called.
type Loader struct {
	logger     ports.Logger
	env        Environment
	strategies []Strategy

	mu       sync.Mutex
	done     bool
	lib      *Library
	loadedBy string
	err      error
}

// NewLoader creates a Loader. Zero fields of env are filled from the host.
func NewLoader(log ports.Logger, env Environment) *Loader {
	if log == nil {
		log = logger.NewNoop()
	}
	log = log.WithComponent("loader")

	if env.GOOS == "" {
		env.GOOS = runtime.GOOS
	}
	if env.GOARCH == "" {
		env.GOARCH = runtime.GOARCH
	}
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	if env.HomeDir == nil {
		env.HomeDir = os.UserHomeDir
	}
	if env.FileSystem == nil {
		env.FileSystem = osfilesystem.New()
	}
	if env.Resources == nil {
		if exe, err := os.Executable(); err == nil {
			env.Resources = os.DirFS(filepath.Dir(exe))
		}
	}
	if env.Open == nil {
		env.Open = Open
	}
	if env.Logger == nil {
		env.Logger = log
	}

	l := &Loader{logger: log, env: env}
	l.strategies = []Strategy{
		envStrategy{env: &l.env},
		bundledStrategy{env: &l.env},
		installPathsStrategy{env: &l.env},
		systemStrategy{env: &l.env},
	}
	return l
}

var (
	defaultLoaderOnce sync.Once
	defaultLoader     *Loader
)

// Default returns the process-wide loader.
func Default() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewLoader(nil, Environment{})
	})
	return defaultLoader
}

// Load returns the library, running the strategy chain on first use.
func (l *Loader) Load() (*Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.lib, l.err
	}
	l.lib, l.loadedBy, l.err = l.run()
	l.done = true
	return l.lib, l.err
}

func (l *Loader) run() (*Library, string, error) {
	var attempts []string
	for _, s := range l.strategies {
		l.logger.Debug("Trying %s strategy", s.Name())
		lib, err := s.Load()
		if err == nil {
			l.logger.Info("Loaded native library from %s", lib.Path())
			return lib, s.Name(), nil
		}
		l.logger.Debug("Strategy %s failed: %s", s.Name(), err.Error())
		attempts = append(attempts, fmt.Sprintf("%s: %v", s.Name(), err))
	}

	reason := fmt.Sprintf("libmpv could not be loaded on %s/%s.\nTried:\n  %s\n%s",
		l.env.GOOS, l.env.GOARCH, strings.Join(attempts, "\n  "), InstallInstructions(l.env.GOOS))
	l.logger.Error("Failed to load native library: %s", strings.Join(attempts, "; "))
	return nil, "", mpverr.LibraryNotFound(reason)
}

// IsAvailable reports whether Load succeeds.
func (l *Loader) IsAvailable() bool {
	_, err := l.Load()
	return err == nil
}

// LoadedBy returns the name of the strategy that loaded the library.
func (l *Loader) LoadedBy() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedBy
}

// Strategies returns the strategy names in the order they are tried.
func (l *Loader) Strategies() []string {
	names := make([]string, len(l.strategies))
	for i, s := range l.strategies {
		names[i] = s.Name()
	}
	return names
}

// Reset forgets the memoized outcome so the next Load runs the chain again.
// The previously loaded library stays mapped.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done = false
	l.lib = nil
	l.loadedBy = ""
	l.err = nil
}
