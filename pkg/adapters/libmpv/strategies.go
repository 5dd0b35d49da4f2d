package libmpv

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/user/mpvplay/pkg/ports"
)

// EnvLibraryPath overrides every other strategy. It may name the library
// file or the directory containing it.
const EnvLibraryPath = "MPV_LIBRARY_PATH"

// Opener loads and binds the library at path.
type Opener func(path string) (*Library, error)

// Environment is what the strategies read from the host.
type Environment struct {
	GOOS       string
	GOARCH     string
	Getenv     func(string) string
	HomeDir    func() (string, error)
	FileSystem ports.FileSystem
	// Resources holds bundled libraries under native/<platform>/<file>.
	Resources fs.FS
	Open      Opener
	Logger    ports.Logger
}

// Strategy is one way of locating the library.
type Strategy interface {
	Name() string
	Load() (*Library, error)
}

var errNotConfigured = errors.New("not configured")

// LibraryNames returns the candidate file names for goos, preferred first.
func LibraryNames(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libmpv.dylib", "libmpv.2.dylib"}
	case "windows":
		return []string{"mpv-2.dll", "libmpv-2.dll"}
	default:
		return []string{"libmpv.so.2", "libmpv.so"}
	}
}

// PlatformDir returns the bundle directory for goos/goarch, or "" if unsupported.
func PlatformDir(goos, goarch string) string {
	arch := ""
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	default:
		return ""
	}
	switch goos {
	case "darwin":
		return "macos-" + arch
	case "linux":
		return "linux-" + arch
	case "windows":
		if arch != "x86_64" {
			return ""
		}
		return "windows-" + arch
	}
	return ""
}

// InstallDirs returns the platform-conventional directories searched for the library.
func InstallDirs(env *Environment) []string {
	home := ""
	if env.HomeDir != nil {
		home, _ = env.HomeDir()
	}
	var dirs []string
	switch env.GOOS {
	case "darwin":
		dirs = []string{"/opt/homebrew/lib", "/usr/local/lib", "/opt/local/lib"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "lib"))
		}
	case "windows":
		for _, v := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if p := env.Getenv(v); p != "" {
				dirs = append(dirs, filepath.Join(p, "mpv"))
			}
		}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "mpv"))
		}
		dirs = append(dirs, `C:\mpv`)
	default:
		dirs = []string{
			"/usr/lib",
			"/usr/local/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib64",
		}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "lib"))
		}
	}
	return dirs
}

// InstallInstructions returns how to install libmpv on goos.
func InstallInstructions(goos string) string {
	switch goos {
	case "darwin":
		return "Install libmpv with Homebrew (brew install mpv) or MacPorts (sudo port install mpv)."
	case "windows":
		return "Download libmpv from https://sourceforge.net/projects/mpv-player-windows/files/libmpv/ " +
			"and place mpv-2.dll next to the executable, or set " + EnvLibraryPath + "."
	default:
		return "Install libmpv with your package manager: sudo apt-get install libmpv2 (Debian/Ubuntu), " +
			"sudo dnf install mpv-libs (Fedora), sudo pacman -S mpv (Arch)."
	}
}

// envStrategy loads the library named by MPV_LIBRARY_PATH.
type envStrategy struct{ env *Environment }

func (s envStrategy) Name() string { return "environment" }

func (s envStrategy) Load() (*Library, error) {
	p := s.env.Getenv(EnvLibraryPath)
	if p == "" {
		return nil, fmt.Errorf("%s %w", EnvLibraryPath, errNotConfigured)
	}
	candidates := []string{p}
	if !hasLibrarySuffix(p) {
		candidates = nil
		for _, name := range LibraryNames(s.env.GOOS) {
			candidates = append(candidates, filepath.Join(p, name))
		}
	}
	return tryPaths(s.env, candidates, true)
}

// bundledStrategy extracts a library shipped with the application.
type bundledStrategy struct{ env *Environment }

func (s bundledStrategy) Name() string { return "bundled" }

func (s bundledStrategy) Load() (*Library, error) {
	if s.env.Resources == nil {
		return nil, fmt.Errorf("resources %w", errNotConfigured)
	}
	dir := PlatformDir(s.env.GOOS, s.env.GOARCH)
	if dir == "" {
		return nil, fmt.Errorf("no bundled library for %s/%s", s.env.GOOS, s.env.GOARCH)
	}

	var errs []string
	for _, name := range LibraryNames(s.env.GOOS) {
		resource := path.Join("native", dir, name)
		data, err := fs.ReadFile(s.env.Resources, resource)
		if err != nil {
			errs = append(errs, resource+": not bundled")
			continue
		}

		tmp := s.env.FileSystem.TempDir()
		if err := s.env.FileSystem.MkdirAll(tmp); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", tmp, err)
		}
		target := filepath.Join(tmp, name)
		if err := s.env.FileSystem.WriteFile(target, data); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", resource, err)
		}
		if s.env.Logger != nil {
			s.env.Logger.Debug("Extracted bundled library to %s", target)
		}

		lib, err := s.env.Open(target)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		return lib, nil
	}
	return nil, errors.New(strings.Join(errs, "; "))
}

// installPathsStrategy probes the platform install directories.
type installPathsStrategy struct{ env *Environment }

func (s installPathsStrategy) Name() string { return "install-paths" }

func (s installPathsStrategy) Load() (*Library, error) {
	var candidates []string
	for _, dir := range InstallDirs(s.env) {
		for _, name := range LibraryNames(s.env.GOOS) {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return tryPaths(s.env, candidates, true)
}

// systemStrategy lets the dynamic linker search for the canonical name.
type systemStrategy struct{ env *Environment }

func (s systemStrategy) Name() string { return "system" }

func (s systemStrategy) Load() (*Library, error) {
	return tryPaths(s.env, LibraryNames(s.env.GOOS), false)
}

// tryPaths opens the first loadable candidate. When checkExists is set,
// candidates missing on disk are skipped without calling the opener.
func tryPaths(env *Environment, candidates []string, checkExists bool) (*Library, error) {
	var errs, missing []string
	for _, p := range candidates {
		if checkExists {
			if ok, _ := env.FileSystem.Exists(p); !ok {
				missing = append(missing, p)
				continue
			}
		}
		lib, err := env.Open(p)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		return lib, nil
	}
	if len(missing) > 0 {
		errs = append(errs, "searched paths: "+strings.Join(missing, ", "))
	}
	if len(errs) == 0 {
		return nil, errors.New("no candidates")
	}
	return nil, errors.New(strings.Join(errs, "; "))
}

func hasLibrarySuffix(p string) bool {
	base := strings.ToLower(filepath.Base(p))
	return strings.HasSuffix(base, ".dylib") || strings.HasSuffix(base, ".dll") ||
		strings.HasSuffix(base, ".so") || strings.Contains(base, ".so.")
}
